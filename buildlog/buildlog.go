// Package buildlog provides SQLite-based journaling of incremental
// build sessions. Each Build call becomes one row, letting a dev-loop
// inspect how often recompilation was actually needed.
package buildlog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Log handles SQLite database operations for build journaling.
type Log struct {
	db *sql.DB
}

// Entry represents a single build record.
type Entry struct {
	ID         int64         `json:"id"`
	Session    string        `json:"session"`
	Seq        int           `json:"seq"`
	Added      int           `json:"added"`
	Valid      int           `json:"valid"`
	Invalid    int           `json:"invalid"`
	Nodes      int           `json:"nodes"`
	Recompiled bool          `json:"recompiled"`
	Elapsed    time.Duration `json:"elapsed"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Open creates a Log backed by the database at path. Use ":memory:"
// for an ephemeral journal.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	l := &Log{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return l, nil
}

// migrate creates the schema if it doesn't exist.
func (l *Log) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		seq INTEGER NOT NULL,
		added INTEGER NOT NULL DEFAULT 0,
		valid INTEGER NOT NULL DEFAULT 0,
		invalid INTEGER NOT NULL DEFAULT 0,
		nodes INTEGER NOT NULL DEFAULT 0,
		recompiled INTEGER NOT NULL DEFAULT 0,
		elapsed_us INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_builds_session ON builds(session, seq);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Record appends one build entry.
func (l *Log) Record(e Entry) error {
	_, err := l.db.Exec(`
		INSERT INTO builds (session, seq, added, valid, invalid, nodes, recompiled, elapsed_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Session, e.Seq, e.Added, e.Valid, e.Invalid, e.Nodes,
		boolToInt(e.Recompiled), e.Elapsed.Microseconds(),
	)
	if err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

// Session returns all entries for a session in sequence order.
func (l *Log) Session(session string) ([]Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, session, seq, added, valid, invalid, nodes, recompiled, elapsed_us, created_at
		FROM builds WHERE session = ? ORDER BY seq`, session)
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recompiled int
		var elapsedUS int64
		if err := rows.Scan(&e.ID, &e.Session, &e.Seq, &e.Added, &e.Valid, &e.Invalid,
			&e.Nodes, &recompiled, &elapsedUS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		e.Recompiled = recompiled != 0
		e.Elapsed = time.Duration(elapsedUS) * time.Microsecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
