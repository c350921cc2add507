package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the process-wide connection pool. It stays nil when Postgres is
// not configured; callers treat that as "persistence disabled".
var Pool *pgxpool.Pool

var (
	newPoolFunc = pgxpool.New
	pingFunc    = func(ctx context.Context, pool *pgxpool.Pool) error { return pool.Ping(ctx) }
)

// InitPostgres connects the global pool. An empty DSN is not an error;
// the service runs without persistence.
func InitPostgres(ctx context.Context, dsn string) error {
	if dsn == "" {
		log.Println("DATABASE_URL not set, running without Postgres")
		return nil
	}

	pool, err := newPoolFunc(ctx, dsn)
	if err != nil {
		return fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pingFunc(ctx, pool); err != nil {
		pool.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	Pool = pool
	log.Println("Connected to Postgres")
	return nil
}

// Close releases the pool if one was created.
func Close() {
	if Pool != nil {
		Pool.Close()
		Pool = nil
	}
}
