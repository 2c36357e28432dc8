// Package database opens the SQL store and applies migrations.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/vmunix/streamverse/internal/migrations"
)

var (
	// ErrNotFound indicates the requested row doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint indicates a foreign key or check constraint violation.
	ErrConstraint = errors.New("constraint violation")
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps *sql.DB with the dialect needed to rewrite placeholders.
type DB struct {
	*sql.DB
	driver string
}

// Open opens the database for driver and runs pending migrations.
// For sqlite, dsn is a file path (parent directories are created) or ":memory:".
func Open(driver, dsn string) (*DB, error) {
	db, err := OpenUnmigrated(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db.DB, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenUnmigrated opens and pings the database without touching the schema.
func OpenUnmigrated(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// A single connection keeps ":memory:" databases coherent and serializes writers.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return &DB{DB: db, driver: driver}, nil
}

// OpenMemory opens a migrated in-memory SQLite database. Used by tests.
func OpenMemory() (*DB, error) {
	return Open(DriverSQLite, ":memory:")
}

// Driver returns the driver name.
func (db *DB) Driver() string { return db.driver }

// Rebind rewrites '?' placeholders to '$n' for postgres.
// Queries must not contain literal question marks.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MapError converts driver errors to the package sentinel errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Message)
		case "foreign_key_violation", "check_violation":
			return fmt.Errorf("%w: %s", ErrConstraint, pqErr.Message)
		}
		return err
	}

	// modernc.org/sqlite wraps errors; check error message for constraint violations
	errStr := err.Error()
	if strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY constraint failed") {
		return fmt.Errorf("%w: %s", ErrDuplicate, errStr)
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") ||
		strings.Contains(errStr, "CHECK constraint failed") {
		return fmt.Errorf("%w: %s", ErrConstraint, errStr)
	}
	return err
}
