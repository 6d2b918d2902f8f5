package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store is a SQLite key-value store of snapshots.
type Store struct {
	conn *sqlx.DB
}

// Entry describes one stored snapshot without loading it.
type Entry struct {
	Key     string `db:"key"`
	Tick    int32  `db:"tick"`
	SavedAt int64  `db:"saved_at"` // Unix seconds
}

// OpenStore opens or creates a SQLite database at the given path.
func OpenStore(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		saved_at INTEGER NOT NULL,
		data BLOB NOT NULL
	);`)
	return err
}

// Put stores snap under key, replacing any previous value.
func (s *Store) Put(key string, snap *Snapshot) error {
	data, err := Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	_, err = s.conn.Exec(
		"INSERT OR REPLACE INTO snapshots (key, tick, saved_at, data) VALUES (?, ?, ?, ?)",
		key, snap.Tick, time.Now().Unix(), data,
	)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	slog.Info("snapshot saved", "key", key, "tick", snap.Tick, "bytes", len(data))
	return nil
}

// Get loads the snapshot stored under key.
func (s *Store) Get(key string) (*Snapshot, error) {
	var data []byte
	err := s.conn.Get(&data, "SELECT data FROM snapshots WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	snap, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	return snap, nil
}

// Keys lists stored snapshots, most recently saved first.
func (s *Store) Keys() ([]Entry, error) {
	var entries []Entry
	err := s.conn.Select(&entries, "SELECT key, tick, saved_at FROM snapshots ORDER BY saved_at DESC, key")
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return entries, nil
}

// Delete removes key. Deleting a missing key returns ErrNotFound.
func (s *Store) Delete(key string) error {
	res, err := s.conn.Exec("DELETE FROM snapshots WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return nil
}
