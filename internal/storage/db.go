// ABOUTME: SQLite connection lifecycle for the daily-entry series.
// ABOUTME: Pure-Go driver (modernc.org/sqlite), WAL journaling, XDG data paths.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// connPragmas are applied to every new connection before any query runs.
// WAL keeps concurrent CLI invocations from blocking each other on the
// series file; the busy timeout covers the remaining write contention.
var connPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

// DB owns the SQLite connection holding one subject's daily-entry series.
type DB struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the series database at dbPath, applying the
// connection pragmas and ensuring the schema exists.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{db: conn, dbPath: dbPath}
	if err := d.setup(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return d, nil
}

// setup tightens file permissions, applies the pragmas, and creates the
// schema. The series holds health readings, so the file is owner-only.
func (d *DB) setup() error {
	if err := os.Chmod(d.dbPath, 0600); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("set database permissions: %w", err)
	}
	for _, pragma := range connPragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	if err := d.initSchema(); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// OpenDefault opens the series database at the default XDG data path.
func OpenDefault() (*DB, error) {
	return Open(DefaultDBPath())
}

// DataDir resolves the XDG data directory for this tool.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "insight")
}

// DefaultDBPath is the series database location under DataDir.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "insight.db")
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
