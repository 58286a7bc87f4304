// Package state persists the latest library snapshot and the cumulative
// change log between runs, backed by SQLite.
package state

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/ansuz/internal/apperr"
)

// schemaVersion is bumped whenever the persisted layout changes in an
// incompatible way; a mismatch triggers the corruption-recovery policy
// (degrade to no prior state) rather than a hard crash.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS articles (
	path          TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	last_modified DATETIME NOT NULL,
	checksum      TEXT NOT NULL DEFAULT '',
	position      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS links (
	source   TEXT NOT NULL,
	position INTEGER NOT NULL,
	target   TEXT NOT NULL,
	resolved TEXT NOT NULL DEFAULT '',
	is_local INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (source, position)
);

CREATE TABLE IF NOT EXISTS change_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	kind        TEXT NOT NULL,
	path        TEXT NOT NULL,
	target      TEXT NOT NULL DEFAULT '',
	recorded_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
`

// DB is the SQLite-backed Store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the state database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("state: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		// The DSN pragmas run at connection open, so a file that exists
		// but is not a database already surfaces here.
		return nil, fmt.Errorf("state: ping: %w", errors.Join(apperr.ErrCorruptState, err))
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: apply schema: %w", errors.Join(apperr.ErrCorruptState, err))
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Reset drops all persisted state and reapplies a fresh schema. Called
// after a version mismatch, when the old layout cannot be trusted.
func (db *DB) Reset() error {
	_, err := db.conn.Exec(`
		DROP TABLE IF EXISTS meta;
		DROP TABLE IF EXISTS articles;
		DROP TABLE IF EXISTS links;
		DROP TABLE IF EXISTS change_log;
	`)
	if err != nil {
		return fmt.Errorf("state: reset: %w", err)
	}
	if _, err := db.conn.Exec(schemaSQL); err != nil {
		return fmt.Errorf("state: reset schema: %w", err)
	}
	return nil
}
