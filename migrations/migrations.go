// Package migrations embeds the goose SQL migrations for the postgres driver.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Dir is the directory inside FS holding the migration files.
const Dir = "goose_sql"

//go:embed goose_sql/*.sql
var FS embed.FS

// Run applies a goose command ("up", "down", "status", ...) to db.
func Run(ctx context.Context, db *sql.DB, command string) error {
	goose.SetBaseFS(FS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, Dir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
