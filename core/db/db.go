package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"launchthat.app/portal/core/db/sqlc"
)

const (
	defaultMaxConns    = 10
	defaultMinConns    = 2
	defaultIdleTimeout = 5 * time.Minute
)

// DB owns the Postgres pool shared by the API, the worker and portalctl.
type DB struct {
	pool *pgxpool.Pool
}

type Config struct {
	DSN string

	// Per process. The API and the worker each hold their own pool.
	MaxConns int32
	MinConns int32

	// Reported as application_name so sessions can be told apart in pg_stat_activity.
	ApplicationName string
}

// New opens the pool and fails fast if Postgres is unreachable.
func New(ctx context.Context, cfg Config) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = defaultMinConns
	if cfg.MinConns > 0 {
		poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	}
	poolCfg.MaxConnIdleTime = defaultIdleTimeout
	if cfg.ApplicationName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

// Pool exposes the underlying pool for health checks and migrations.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Queries runs each statement on its own pooled connection.
func (db *DB) Queries() *sqlc.Queries {
	return sqlc.New(db.pool)
}

// WithTx hands fn a Queries bound to one transaction. The transaction
// commits only if fn returns nil.
//
// Creating an organization together with its owner membership:
//
//	err := db.WithTx(ctx, func(q *sqlc.Queries) error {
//	    org, err := q.CreateOrganization(ctx, sqlc.CreateOrganizationParams{
//	        ID: orgID, OwnerUserID: ownerID, Name: name, Slug: slug,
//	    })
//	    if err != nil {
//	        return err
//	    }
//	    _, err = q.CreateMembership(ctx, sqlc.CreateMembershipParams{
//	        ID: memberID, OrganizationID: org.ID, UserID: ownerID,
//	        Role: "owner", IsActive: true,
//	    })
//	    return err
//	})
//
// A slug conflict on the organization leaves no orphaned membership behind.
func (db *DB) WithTx(ctx context.Context, fn func(q *sqlc.Queries) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(sqlc.New(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
