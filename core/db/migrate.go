package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Migrate applies every pending migration.
func (db *DB) Migrate(ctx context.Context) error {
	return db.runGoose(func(sqlDB *sql.DB) error {
		return goose.UpContext(ctx, sqlDB, migrationsDir)
	})
}

// MigrateDown rolls back the most recent migration.
func (db *DB) MigrateDown(ctx context.Context) error {
	return db.runGoose(func(sqlDB *sql.DB) error {
		return goose.DownContext(ctx, sqlDB, migrationsDir)
	})
}

// MigrationVersion reports the currently applied migration version.
func (db *DB) MigrationVersion(ctx context.Context) (int64, error) {
	var version int64
	err := db.runGoose(func(sqlDB *sql.DB) error {
		v, err := goose.GetDBVersionContext(ctx, sqlDB)
		version = v
		return err
	})
	return version, err
}

func (db *DB) runGoose(fn func(*sql.DB) error) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(db.pool)
	defer sqlDB.Close() //nolint:errcheck

	if err := fn(sqlDB); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
