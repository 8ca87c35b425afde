// Package migrations применяет встроенные миграции goose к PostgreSQL.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var scripts embed.FS

const dir = "sql"

func open(pool *pgxpool.Pool) (*sql.DB, error) {
	goose.SetBaseFS(scripts)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return stdlib.OpenDBFromPool(pool), nil
}

// Up применяет все непримененные миграции.
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	db, err := open(pool)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Down откатывает steps последних миграций.
func Down(ctx context.Context, pool *pgxpool.Pool, steps int) error {
	db, err := open(pool)
	if err != nil {
		return err
	}
	defer db.Close()

	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, db, dir); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
	}
	return nil
}

// Status печатает состояние миграций и возвращает текущую версию.
func Status(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	db, err := open(pool)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := goose.StatusContext(ctx, db, dir); err != nil {
		return 0, fmt.Errorf("failed to read migration status: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}
