package pressfront

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pressfront/source"
)

// SnapshotStore is a SQLite-backed response cache. It keeps the last good
// REST responses across restarts so a cold process can render without
// waiting on the WordPress site.
type SnapshotStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSnapshotStore opens (or creates) the SQLite database at path, ensures
// the data directory exists, and creates the schema. Entries older than ttl
// are treated as missing; ttl 0 keeps them forever.
func NewSnapshotStore(path string, ttl time.Duration) (*SnapshotStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the request handlers read while a fetch writes; busy_timeout
	// makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SnapshotStore{db: db, ttl: ttl, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

func (s *SnapshotStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS responses (
    key TEXT PRIMARY KEY,
    body BLOB NOT NULL,
    total INTEGER NOT NULL DEFAULT 0,
    total_pages INTEGER NOT NULL DEFAULT 0,
    fetched_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS responses_fetched_at ON responses (fetched_at);
`)
	return err
}

// Get returns the stored response for key unless it has expired.
func (s *SnapshotStore) Get(ctx context.Context, key string) (source.Response, bool, error) {
	var (
		resp      source.Response
		fetchedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT body, total, total_pages, fetched_at FROM responses WHERE key = ?`, key).
		Scan(&resp.Body, &resp.Total, &resp.TotalPages, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return source.Response{}, false, nil
	}
	if err != nil {
		return source.Response{}, false, fmt.Errorf("pressfront: snapshot get: %w", err)
	}
	if s.ttl > 0 && s.now().Sub(time.Unix(fetchedAt, 0)) >= s.ttl {
		return source.Response{}, false, nil
	}
	return resp, true, nil
}

// Set upserts the response for key.
func (s *SnapshotStore) Set(ctx context.Context, key string, resp source.Response) error {
	if resp.Body == nil {
		resp.Body = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (key, body, total, total_pages, fetched_at) VALUES (?, ?, ?, ?, ?)`,
		key, resp.Body, resp.Total, resp.TotalPages, s.now().Unix())
	if err != nil {
		return fmt.Errorf("pressfront: snapshot set: %w", err)
	}
	return nil
}

// Purge removes every stored response.
func (s *SnapshotStore) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM responses`); err != nil {
		return fmt.Errorf("pressfront: snapshot purge: %w", err)
	}
	return nil
}

// Prune removes expired responses and returns how many were deleted.
func (s *SnapshotStore) Prune(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.ttl).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM responses WHERE fetched_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pressfront: snapshot prune: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored responses.
func (s *SnapshotStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses`).Scan(&n)
	return n, err
}
