// Package migrations provides embedded SQL migration files.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// FS contains the embedded migrations, one directory per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Dialects maps a database driver name to its goose dialect and migration directory.
var Dialects = map[string]struct {
	Goose string
	Dir   string
}{
	"sqlite":   {Goose: "sqlite3", Dir: "sqlite"},
	"postgres": {Goose: "postgres", Dir: "postgres"},
}

// Run applies all pending migrations for the given driver.
func Run(db *sql.DB, driver string) error {
	d, ok := Dialects[driver]
	if !ok {
		return fmt.Errorf("unsupported driver %q", driver)
	}

	goose.SetBaseFS(FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(d.Goose); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(db, d.Dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Command runs a goose command (up, down, status, version, reset) for the given driver.
func Command(db *sql.DB, driver, command string) error {
	d, ok := Dialects[driver]
	if !ok {
		return fmt.Errorf("unsupported driver %q", driver)
	}

	goose.SetBaseFS(FS)
	if err := goose.SetDialect(d.Goose); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	var err error
	switch command {
	case "up":
		err = goose.Up(db, d.Dir)
	case "up-one":
		err = goose.UpByOne(db, d.Dir)
	case "down":
		err = goose.Down(db, d.Dir)
	case "status":
		err = goose.Status(db, d.Dir)
	case "version":
		err = goose.Version(db, d.Dir)
	case "reset":
		err = goose.Reset(db, d.Dir)
	default:
		return fmt.Errorf("unknown migrate command: %s", command)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}
