// ABOUTME: SQLite-backed journal of operations the console performed
// ABOUTME: Local activity record only; the server keeps the authoritative audit log

// Package history records the vault operations this console performed
// (uploads, downloads, deletions, searches) in a local SQLite database.
// It is a convenience journal for the `history` command, not an offline
// cache of vault contents and not a substitute for the server audit log.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Action identifies what the console did.
type Action string

const (
	ActionUpload   Action = "upload"
	ActionDownload Action = "download"
	ActionDelete   Action = "delete"
	ActionSearch   Action = "search"
)

// Entry is one journal record.
type Entry struct {
	ID        string // UUID v4, generated on append when empty
	Action    Action
	Target    string // file id, filename, or search query
	Actor     string // username at the time of the operation
	Timestamp time.Time
}

// Store is the journal. Safe for concurrent use; database/sql handles
// connection serialization.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates or opens the journal database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	logger := slog.Default().With("component", "history")

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS operations (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			target TEXT NOT NULL,
			actor TEXT NOT NULL,
			timestamp DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_operations_timestamp
			ON operations(timestamp);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	logger.Debug("history journal opened", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Append records an operation. ID and Timestamp are generated when
// unset.
func (s *Store) Append(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO operations (id, action, target, actor, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.Action), e.Target, e.Actor, e.Timestamp.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("appending history entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first. A limit of zero
// or less defaults to 50.
func (s *Store) List(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, target, actor, timestamp
		 FROM operations
		 ORDER BY timestamp DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var action, stamp string
		if err := rows.Scan(&e.ID, &action, &e.Target, &e.Actor, &stamp); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		e.Action = Action(action)
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, stamp); err != nil {
			return nil, fmt.Errorf("parsing history timestamp %q: %w", stamp, err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
