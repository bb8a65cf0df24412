// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// batchTimeout bounds a single upsert batch round trip.
const batchTimeout = 120 * time.Second

// Postgres is a Sink backed by a PostgreSQL connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres connection string is required")
	}
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres connection string: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Pool exposes the underlying pool for queries.
func (p *Postgres) Pool() *pgxpool.Pool { return p.pool }

// Close releases every pooled connection.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) CreateSchema(ctx context.Context) error {
	for _, stmt := range postgresDialect.schemaStatements() {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert queues every row into one batch inside a transaction.
func (p *Postgres) Upsert(ctx context.Context, t Table, rows [][]any) error {
	bCtx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	tx, err := p.pool.Begin(bCtx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(bCtx)

	query := postgresDialect.upsertStatement(t)
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, row...)
	}

	results := tx.SendBatch(bCtx, batch)
	for i := range rows {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("upserting %s row %v: %w", t.Name, rows[i][0], err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("closing batch: %w", err)
	}
	return tx.Commit(bCtx)
}
