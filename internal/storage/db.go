package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFile is the database file name inside the data directory.
const DBFile = "bpexplorer.db"

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// OpenDB opens (or creates) the bpexplorer SQLite database in the given data directory.
func OpenDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFile)

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	db := &DB{conn: conn, path: dbPath}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB for direct queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// migrate creates the schema if it doesn't exist.
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS blueprints (
		guid TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS back_refs (
		target TEXT    NOT NULL,
		source TEXT    NOT NULL,
		ord    INTEGER NOT NULL,
		PRIMARY KEY (target, ord)
	);

	CREATE TABLE IF NOT EXISTS recent (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		guid       TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		visited_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_blueprints_name ON blueprints(name);
	`

	_, err := db.conn.Exec(schema)
	return err
}
