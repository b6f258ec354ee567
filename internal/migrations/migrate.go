// Package migrations applies the goose SQL migrations that define the run
// history schema.
package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Up brings the database to the latest schema version using the .sql files
// in dir.
func Up(db *sql.DB, dir string) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	// Migration progress goes through the service logger, not goose's
	// stdlog output.
	goose.SetLogger(goose.NopLogger())

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("apply migrations from %s: %w", dir, err)
	}

	return nil
}
