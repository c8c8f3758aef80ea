package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the cache tables if they do not exist yet.
func (db *Database) EnsureSchema(ctx context.Context) error {
	if _, err := db.ConnectionPool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// ResetSchema drops and recreates the cache tables.
func (db *Database) ResetSchema(ctx context.Context) error {
	if _, err := db.ConnectionPool.Exec(ctx, "DROP TABLE IF EXISTS attribute_schemas, schema_domains"); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return db.EnsureSchema(ctx)
}
