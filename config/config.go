package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultPageSize = 1000

type Configuration struct {
	BaseDN   string
	DcFQDN   string
	LDAPURL  string
	Username string
	Password string
	PageSize uint32

	// Postgres schema cache; empty disables it
	SchemaCacheDsn string
	Domain         string
}

// URL returns the LDAP URL to dial, derived from the DC FQDN unless set explicitly.
func (c Configuration) URL() string {
	if c.LDAPURL != "" {
		return c.LDAPURL
	}
	return fmt.Sprintf("ldap://%s:389", c.DcFQDN)
}

// LoadEnvConfig loads configName (if it exists) into the environment and reads
// the configuration from it. Variables already set in the environment win.
func LoadEnvConfig(configName string) (Configuration, error) {
	if configName != "" {
		if err := godotenv.Load(configName); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Configuration{}, fmt.Errorf("error loading %s: %w", configName, err)
		}
	}
	return FromEnv()
}

// FromEnv reads the configuration from environment variables.
func FromEnv() (Configuration, error) {
	cfg := Configuration{
		BaseDN:         os.Getenv("LDAP_BASEDN"),
		DcFQDN:         os.Getenv("LDAP_DCFQDN"),
		LDAPURL:        os.Getenv("LDAP_URL"),
		Username:       os.Getenv("LDAP_USERNAME"),
		Password:       os.Getenv("LDAP_PASSWORD"),
		PageSize:       defaultPageSize,
		SchemaCacheDsn: os.Getenv("ADSYNTAX_DSN"),
		Domain:         os.Getenv("ADSYNTAX_DOMAIN"),
	}

	if raw := os.Getenv("LDAP_PAGESIZE"); raw != "" {
		pageSize, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return Configuration{}, fmt.Errorf("failed to parse LDAP_PAGESIZE: %w", err)
		}
		cfg.PageSize = uint32(pageSize)
	}

	if cfg.Domain == "" {
		cfg.Domain = cfg.BaseDN
	}

	if cfg.BaseDN == "" {
		return Configuration{}, errors.New("LDAP_BASEDN is required")
	}
	if cfg.DcFQDN == "" && cfg.LDAPURL == "" {
		return Configuration{}, errors.New("one of LDAP_DCFQDN or LDAP_URL is required")
	}

	return cfg, nil
}
