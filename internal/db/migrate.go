package db

import (
	"context"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Migrate runs a goose command ("up", "down", "status", "version") against
// the embedded migrations. It opens its own database/sql connection so the
// pool's prepared statements never race the schema.
func Migrate(ctx context.Context, databaseURL, command string) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	sqlDB, err := goose.OpenDBWithDriver("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer sqlDB.Close()

	if err := goose.RunContext(ctx, command, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
