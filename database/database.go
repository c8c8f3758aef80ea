package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"f0oster/adsyntax/activedirectory/schema"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDomainNotCached is returned when no schema has been saved for a domain.
var ErrDomainNotCached = errors.New("no cached schema for domain")

// Database is the Postgres-backed schema cache.
type Database struct {
	dsn            string
	ConnectionPool *pgxpool.Pool
	logger         *slog.Logger
}

func NewDatabase(dsn string, logger *slog.Logger) *Database {
	if logger == nil {
		logger = slog.Default()
	}
	return &Database{
		dsn:    dsn,
		logger: logger,
	}
}

func (db *Database) Connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, db.dsn)
	if err != nil {
		return fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("unable to connect: %w", err)
	}
	db.ConnectionPool = pool
	return nil
}

func (db *Database) Close() {
	if db.ConnectionPool != nil {
		db.ConnectionPool.Close()
	}
}

func rollbackOrCommit(ctx context.Context, logger *slog.Logger, tx pgx.Tx, err *error) {
	if *err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error("transaction_rollback_failed", slog.Any("error", rbErr), slog.Any("cause", *err))
		}
		return
	}
	if cmErr := tx.Commit(ctx); cmErr != nil {
		*err = fmt.Errorf("commit failed: %w", cmErr)
	}
}

// SaveAttributeSchemas replaces the cached schema of domain in a single transaction.
func (db *Database) SaveAttributeSchemas(ctx context.Context, domain string, schemas []*schema.AttributeSchema) (err error) {
	tx, err := db.ConnectionPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer rollbackOrCommit(ctx, db.logger, tx, &err)

	var domainID uuid.UUID
	if err = tx.QueryRow(ctx, UpsertDomain, uuid.New(), domain).Scan(&domainID); err != nil {
		return fmt.Errorf("upsert domain %s: %w", domain, err)
	}

	if _, err = tx.Exec(ctx, DeleteAttributeSchemas, domainID); err != nil {
		return fmt.Errorf("clear cached schema: %w", err)
	}

	batch := &pgx.Batch{}
	for _, s := range schemas {
		batch.Queue(InsertAttributeSchema,
			domainID,
			s.AttributeLDAPName,
			s.AttributeName,
			s.AttributeID,
			s.AttributeSyntax,
			s.AttributeOMSyntax,
			s.AttributeIsSingleValued,
		)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert attribute schemas: %w", err)
	}

	db.logger.Info("schema_cached",
		slog.String("operation", "SaveAttributeSchemas"),
		slog.String("domain", domain),
		slog.Int("attributes", len(schemas)))
	return nil
}

// LoadAttributeSchemas registers every cached attribute schema of domain with
// registry and returns how many were loaded.
func (db *Database) LoadAttributeSchemas(ctx context.Context, domain string, registry *schema.SchemaRegistry) (int, error) {
	var domainID uuid.UUID
	err := db.ConnectionPool.QueryRow(ctx, SelectDomain, domain).Scan(&domainID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrDomainNotCached, domain)
	}
	if err != nil {
		return 0, fmt.Errorf("select domain %s: %w", domain, err)
	}

	rows, err := db.ConnectionPool.Query(ctx, SelectAttributeSchemas, domainID)
	if err != nil {
		return 0, fmt.Errorf("select attribute schemas: %w", err)
	}

	schemas, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*schema.AttributeSchema, error) {
		s := &schema.AttributeSchema{}
		err := row.Scan(&s.AttributeLDAPName, &s.AttributeName, &s.AttributeID, &s.AttributeSyntax, &s.AttributeOMSyntax, &s.AttributeIsSingleValued)
		return s, err
	})
	if err != nil {
		return 0, fmt.Errorf("scan attribute schemas: %w", err)
	}

	for _, s := range schemas {
		registry.RegisterAttributeSchema(s)
	}
	return len(schemas), nil
}
