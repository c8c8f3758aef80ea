package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"LDAP_BASEDN", "LDAP_DCFQDN", "LDAP_URL", "LDAP_USERNAME", "LDAP_PASSWORD", "LDAP_PAGESIZE", "ADSYNTAX_DSN", "ADSYNTAX_DOMAIN"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadEnvConfig_FromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "settings.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"LDAP_BASEDN=DC=example,DC=com\n"+
			"LDAP_DCFQDN=dc01.example.com\n"+
			"LDAP_USERNAME=svc@example.com\n"+
			"LDAP_PASSWORD=secret\n"+
			"LDAP_PAGESIZE=250\n"), 0o600))

	cfg, err := LoadEnvConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "DC=example,DC=com", cfg.BaseDN)
	assert.Equal(t, "svc@example.com", cfg.Username)
	assert.Equal(t, uint32(250), cfg.PageSize)
	assert.Equal(t, "ldap://dc01.example.com:389", cfg.URL())
	assert.Equal(t, "DC=example,DC=com", cfg.Domain)
	assert.Empty(t, cfg.SchemaCacheDsn)
}

func TestLoadEnvConfig_MissingFileUsesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LDAP_BASEDN", "DC=corp,DC=local")
	t.Setenv("LDAP_URL", "ldaps://dc.corp.local:636")
	t.Setenv("ADSYNTAX_DOMAIN", "corp")

	cfg, err := LoadEnvConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "ldaps://dc.corp.local:636", cfg.URL())
	assert.Equal(t, uint32(defaultPageSize), cfg.PageSize)
	assert.Equal(t, "corp", cfg.Domain)
}

func TestFromEnv_Errors(t *testing.T) {
	clearEnv(t)
	_, err := FromEnv()
	assert.ErrorContains(t, err, "LDAP_BASEDN")

	t.Setenv("LDAP_BASEDN", "DC=corp,DC=local")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "LDAP_DCFQDN")

	t.Setenv("LDAP_DCFQDN", "dc")
	t.Setenv("LDAP_PAGESIZE", "lots")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "LDAP_PAGESIZE")
}
