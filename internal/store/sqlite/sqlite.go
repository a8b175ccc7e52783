package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultKey names the row holding the equipment document.
const DefaultKey = "equipment"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  updatedAt TEXT NOT NULL
);`

// Store keeps the equipment document as one row of a local SQLite file.
type Store struct {
	conn *sql.DB
	key  string
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One writer; also keeps ":memory:" on a single connection.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable wal: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to init sqlite schema: %w", err)
	}

	return &Store{conn: conn, key: DefaultKey}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Load returns the stored document, nil when no row exists yet.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.conn.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE key = ?`, s.key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

// Save upserts the document row.
func (s *Store) Save(ctx context.Context, data []byte) error {
	_, err := s.conn.ExecContext(ctx, `
INSERT INTO documents (key, value, updatedAt) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = excluded.updatedAt`,
		s.key, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// LastWrite returns the time of the last Save, zero if never written.
func (s *Store) LastWrite(ctx context.Context) (time.Time, error) {
	var v string
	err := s.conn.QueryRowContext(ctx,
		`SELECT updatedAt FROM documents WHERE key = ?`, s.key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to read update time: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid update time %q: %w", v, err)
	}
	return t, nil
}

// Ping checks the database handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}
