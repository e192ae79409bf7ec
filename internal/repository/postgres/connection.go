package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/prolink/prolink-backend/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE for unique_violation
const uniqueViolation = "23505"

// Querier is the subset of pgx shared by pools and transactions
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Querier that can also open transactions
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Connection wraps the pgx pool shared by all repositories
type Connection struct {
	*pgxpool.Pool
}

// NewConnection opens and verifies a pool, applying migrations when migrate is set
func NewConnection(ctx context.Context, dsn string, migrate bool) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if migrate {
		if err := db.Migrate(ctx, dsn); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return &Connection{Pool: pool}, nil
}

// Close releases the pool
func (c *Connection) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
