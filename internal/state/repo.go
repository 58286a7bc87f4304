package state

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// Load reads the most recent snapshot and the full change log. A missing
// prior state yields (nil, nil, nil); an incompatible or unreadable record
// yields an error wrapping apperr.ErrCorruptState so the caller can degrade
// to the no-prior case.
func (db *DB) Load() (*models.Snapshot, []models.ChangeEvent, error) {
	version, scanTime, found, err := db.readMeta()
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, nil
	}
	if version != schemaVersion {
		return nil, nil, fmt.Errorf("state: schema version %d, expected %d: %w",
			version, schemaVersion, apperr.ErrCorruptState)
	}

	snap, err := db.loadSnapshot(scanTime)
	if err != nil {
		return nil, nil, err
	}
	log, err := db.loadLog()
	if err != nil {
		return nil, nil, err
	}
	return snap, log, nil
}

func (db *DB) readMeta() (version int, scanTime time.Time, found bool, err error) {
	rows, err := db.conn.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return 0, time.Time{}, false, fmt.Errorf("state: read meta: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return 0, time.Time{}, false, err
		}
		switch key {
		case "schema_version":
			v, convErr := strconv.Atoi(value)
			if convErr != nil {
				return 0, time.Time{}, false, fmt.Errorf("state: bad schema version %q: %w", value, apperr.ErrCorruptState)
			}
			version = v
			found = true
		case "scan_time":
			ts, parseErr := time.Parse(time.RFC3339Nano, value)
			if parseErr != nil {
				return 0, time.Time{}, false, fmt.Errorf("state: bad scan time %q: %w", value, apperr.ErrCorruptState)
			}
			scanTime = ts
		}
	}
	return version, scanTime, found, rows.Err()
}

func (db *DB) loadSnapshot(scanTime time.Time) (*models.Snapshot, error) {
	snap := models.NewSnapshot(scanTime)

	rows, err := db.conn.Query(`SELECT path, name, last_modified, checksum FROM articles ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("state: load articles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.Path, &a.Name, &a.LastModified, &a.Checksum); err != nil {
			return nil, err
		}
		snap.Add(&a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	linkRows, err := db.conn.Query(`SELECT source, target, resolved, is_local FROM links ORDER BY source, position`)
	if err != nil {
		return nil, fmt.Errorf("state: load links: %w", err)
	}
	defer linkRows.Close()
	for linkRows.Next() {
		var source string
		var l models.Link
		if err := linkRows.Scan(&source, &l.Target, &l.ResolvedPath, &l.IsLocalMarkdown); err != nil {
			return nil, err
		}
		a, ok := snap.Articles[source]
		if !ok {
			return nil, fmt.Errorf("state: link for unknown article %s: %w", source, apperr.ErrCorruptState)
		}
		a.Links = append(a.Links, l)
	}
	return snap, linkRows.Err()
}

func (db *DB) loadLog() ([]models.ChangeEvent, error) {
	rows, err := db.conn.Query(`SELECT kind, path, target, recorded_at FROM change_log ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("state: load change log: %w", err)
	}
	defer rows.Close()

	var out []models.ChangeEvent
	for rows.Next() {
		var e models.ChangeEvent
		if err := rows.Scan(&e.Kind, &e.Path, &e.Target, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Save replaces the stored snapshot and appends this run's events to the
// change log in one transaction: either everything persists or nothing
// does, and already-stored history is never rewritten.
func (db *DB) Save(snap *models.Snapshot, events []models.ChangeEvent) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("state: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM links`); err != nil {
		return fmt.Errorf("state: clear links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM articles`); err != nil {
		return fmt.Errorf("state: clear articles: %w", err)
	}

	if err := insertSnapshot(tx, snap); err != nil {
		return err
	}
	if err := appendEvents(tx, events); err != nil {
		return err
	}

	if err := writeMeta(tx, snap.ScanTime); err != nil {
		return err
	}
	return tx.Commit()
}

func insertSnapshot(tx *sql.Tx, snap *models.Snapshot) error {
	artStmt, err := tx.Prepare(`INSERT INTO articles (path, name, last_modified, checksum, position) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("state: prepare article insert: %w", err)
	}
	defer artStmt.Close()

	linkStmt, err := tx.Prepare(`INSERT INTO links (source, position, target, resolved, is_local) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("state: prepare link insert: %w", err)
	}
	defer linkStmt.Close()

	for pos, path := range snap.Order {
		a := snap.Articles[path]
		if _, err := artStmt.Exec(a.Path, a.Name, a.LastModified, a.Checksum, pos); err != nil {
			return fmt.Errorf("state: insert article %s: %w", a.Path, err)
		}
		for i, l := range a.Links {
			if _, err := linkStmt.Exec(a.Path, i, l.Target, l.ResolvedPath, l.IsLocalMarkdown); err != nil {
				return fmt.Errorf("state: insert link %s[%d]: %w", a.Path, i, err)
			}
		}
	}
	return nil
}

func appendEvents(tx *sql.Tx, events []models.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT INTO change_log (kind, path, target, recorded_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("state: prepare event insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range events {
		if _, err := stmt.Exec(string(e.Kind), e.Path, e.Target, e.Timestamp); err != nil {
			return fmt.Errorf("state: append event: %w", err)
		}
	}
	return nil
}

func writeMeta(tx *sql.Tx, scanTime time.Time) error {
	upsert := `INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.Exec(upsert, "schema_version", strconv.Itoa(schemaVersion)); err != nil {
		return fmt.Errorf("state: write meta: %w", err)
	}
	if _, err := tx.Exec(upsert, "scan_time", scanTime.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("state: write meta: %w", err)
	}
	return nil
}
