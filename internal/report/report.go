// Package report persists batch outcomes to a SQLite database so large
// migrations can be audited and re-queried after the run.
package report

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS migrations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	file        TEXT NOT NULL,
	status      TEXT NOT NULL,
	applied     INTEGER NOT NULL DEFAULT 0,
	removed     INTEGER NOT NULL DEFAULT 0,
	substituted INTEGER NOT NULL DEFAULT 0,
	elapsed_ms  INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_migrations_file ON migrations(file);
CREATE INDEX IF NOT EXISTS idx_migrations_status ON migrations(status);
`

// DB wraps the report database handle.
type DB struct {
	db *sql.DB
}

// Open opens or creates the report database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open report db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init report db: %w", err)
	}
	return &DB{db: db}, nil
}

// Record inserts one row for a processed file. Implements migrate.Recorder.
func (d *DB) Record(file, status string, applied, removed, substituted int, elapsed time.Duration, errMsg string) error {
	_, err := d.db.Exec(
		`INSERT INTO migrations (file, status, applied, removed, substituted, elapsed_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		file, status, applied, removed, substituted, elapsed.Milliseconds(), errMsg,
	)
	if err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return nil
}

// Summary returns per-status counts for the whole table.
func (d *DB) Summary() (map[string]int, error) {
	rows, err := d.db.Query(`SELECT status, COUNT(*) FROM migrations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}
