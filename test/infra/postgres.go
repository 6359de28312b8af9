package infra

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"realtyflow/migrations"
)

// Harness owns the lifecycle of the Postgres test database and pgx pool.
type Harness struct {
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
	dsn       string
}

// NewHarness provides a Postgres 16 database with the embedded schema applied.
// If overrideDSN or DATABASE_URL is set, it reuses that database instead of
// starting a container; the schema statements are idempotent so applying them
// to an existing database is safe.
func NewHarness(ctx context.Context, overrideDSN string) (*Harness, error) {
	dsn := overrideDSN
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}

	var pgContainer *postgres.PostgresContainer
	if dsn == "" {
		pgC, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("realtyflow"),
			postgres.WithUsername("realtyflow"),
			postgres.WithPassword("realtyflow"),
		)
		if err != nil {
			return nil, fmt.Errorf("start postgres container: %w", err)
		}
		pgContainer = pgC

		dsn, err = pgC.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = pgC.Terminate(ctx)
			return nil, fmt.Errorf("resolve connection string: %w", err)
		}
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	cfg.MaxConns = 32
	cfg.MaxConnIdleTime = 30 * time.Second
	cfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
		return nil, fmt.Errorf("create pool: %w", err)
	}

	h := &Harness{
		container: pgContainer,
		pool:      pool,
		dsn:       dsn,
	}

	if err := h.applySchema(ctx); err != nil {
		h.Close(ctx)
		return nil, err
	}

	return h, nil
}

// Pool exposes the configured pgx pool.
func (h *Harness) Pool() *pgxpool.Pool {
	return h.pool
}

// DSN returns the connection string for direct connections.
func (h *Harness) DSN() string {
	return h.dsn
}

// Close tears down resources.
func (h *Harness) Close(ctx context.Context) {
	if h.pool != nil {
		h.pool.Close()
	}
	if h.container != nil {
		_ = h.container.Terminate(ctx)
	}
}

func (h *Harness) applySchema(ctx context.Context) error {
	sql, err := migrations.All()
	if err != nil {
		return err
	}
	if strings.TrimSpace(sql) == "" {
		return fmt.Errorf("no schema to apply")
	}

	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Release()

	res := conn.Conn().PgConn().Exec(ctx, sql)
	if _, err := res.ReadAll(); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	return nil
}

// Reset truncates mutable tables to provide a clean slate between tests.
func (h *Harness) Reset(ctx context.Context) error {
	tables := []string{
		"inquiry_events",
		"inquiries",
		"favorites",
		"properties",
		"users",
	}

	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reset begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, tbl := range tables {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+tbl+" CASCADE"); err != nil {
			return fmt.Errorf("truncate %s: %w", tbl, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reset commit: %w", err)
	}

	return nil
}
