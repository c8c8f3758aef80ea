package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"f0oster/adsyntax/activedirectory"
	"f0oster/adsyntax/activedirectory/ldaphelpers"
	"f0oster/adsyntax/activedirectory/schema"
	"f0oster/adsyntax/config"
	"f0oster/adsyntax/database"

	"github.com/go-ldap/ldap/v3"
)

func main() {
	configName := flag.String("config", "settings.env", "path to the .env settings file")
	filter := flag.String("filter", ldaphelpers.AllUserObjects, "LDAP search filter")
	attrs := flag.String("attrs", "", "comma separated attributes to fetch (default: all)")
	useCache := flag.Bool("cache", false, "load the schema from the Postgres cache when available")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), logger, *configName, *filter, splitAttributes(*attrs), *useCache); err != nil {
		logger.Error("adsyntax failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func splitAttributes(raw string) []string {
	var attributes []string
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			attributes = append(attributes, a)
		}
	}
	return attributes
}

func run(ctx context.Context, logger *slog.Logger, configName, filter string, attributes []string, useCache bool) error {
	cfg, err := config.LoadEnvConfig(configName)
	if err != nil {
		return err
	}

	registry := schema.NewSchemaRegistry()
	adInstance := activedirectory.NewActiveDirectoryInstance(cfg, registry, logger)
	if err := adInstance.Connect(cfg.Username, cfg.Password); err != nil {
		return err
	}
	defer adInstance.Close()

	if err := loadSchema(ctx, logger, cfg, adInstance, useCache); err != nil {
		return err
	}

	parser := adInstance.Parser()
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return adInstance.FetchPagedEntriesWithCallback(ctx, filter, attributes, func(entries []*ldap.Entry) error {
		for _, result := range parser.ParseEntries(entries) {
			if result.Error != nil {
				logger.Warn("entry_skipped", slog.String("dn", result.DN), slog.Any("error", result.Error))
				continue
			}
			if err := encoder.Encode(result.Object); err != nil {
				return fmt.Errorf("encode %s: %w", result.DN, err)
			}
		}
		return nil
	})
}

// loadSchema warms the registry from the Postgres cache when asked to, and
// otherwise reads it from the directory, refreshing the cache if one is configured.
func loadSchema(ctx context.Context, logger *slog.Logger, cfg config.Configuration, adInstance *activedirectory.ActiveDirectoryInstance, useCache bool) error {
	if cfg.SchemaCacheDsn == "" {
		return adInstance.LoadSchema(ctx)
	}

	db := database.NewDatabase(cfg.SchemaCacheDsn, logger)
	if err := db.Connect(ctx); err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	if useCache {
		n, err := db.LoadAttributeSchemas(ctx, cfg.Domain, adInstance.SchemaRegistry)
		if err == nil {
			logger.Info("schema_loaded_from_cache", slog.String("domain", cfg.Domain), slog.Int("attributes", n))
			return nil
		}
		if !errors.Is(err, database.ErrDomainNotCached) {
			return err
		}
	}

	if err := adInstance.LoadSchema(ctx); err != nil {
		return err
	}
	return db.SaveAttributeSchemas(ctx, cfg.Domain, adInstance.SchemaRegistry.AttributeSchemas())
}
