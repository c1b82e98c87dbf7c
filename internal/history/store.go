// Package history keeps a local record of shared files so their owner
// tokens survive between invocations.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no entry matches.
var ErrNotFound = errors.New("history entry not found")

// Entry is one shared file.
type Entry struct {
	ID         string
	URL        string
	OwnerToken string
	CreatedAt  time.Time
	ExpiresAt  time.Time // zero when unknown
}

// Expired reports whether the entry's expiry lies before now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !e.ExpiresAt.After(now)
}

// TTL returns the time left until expiry, or zero when unknown.
func (e Entry) TTL(now time.Time) time.Duration {
	if e.ExpiresAt.IsZero() {
		return 0
	}
	return e.ExpiresAt.Sub(now)
}

// Store is the history database.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger attaches a diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open opens or creates the history database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	s.logger.Debug("history opened", zap.String("path", path))
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS files (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		owner_token TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_files_created ON files(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Add stores e, replacing an entry with the same ID. A zero CreatedAt is
// set to the current time.
func (s *Store) Add(e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("history entry has no file ID")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO files (id, url, owner_token, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			owner_token = CASE WHEN excluded.owner_token != '' THEN excluded.owner_token ELSE files.owner_token END,
			expires_at = CASE WHEN excluded.expires_at != 0 THEN excluded.expires_at ELSE files.expires_at END`,
		e.ID, e.URL, e.OwnerToken, toMillis(e.CreatedAt), toMillis(e.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to add %s to history: %w", e.ID, err)
	}
	s.logger.Debug("history entry added", zap.String("id", e.ID))
	return nil
}

// Get returns the entry for a file ID.
func (s *Store) Get(id string) (Entry, error) {
	row := s.db.QueryRow(`
		SELECT id, url, owner_token, created_at, expires_at
		FROM files WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read history: %w", err)
	}
	return e, nil
}

// Remove deletes the entry for a file ID. It reports whether one existed.
func (s *Store) Remove(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to remove %s from history: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns all entries, oldest first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, url, owner_token, created_at, expires_at
		FROM files ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes every entry.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM files`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// PruneExpired removes entries whose expiry lies before now and returns
// how many were removed.
func (s *Store) PruneExpired(now time.Time) (int, error) {
	res, err := s.db.Exec(`DELETE FROM files WHERE expires_at != 0 AND expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug("expired history entries pruned", zap.Int64("count", n))
	}
	return int(n), nil
}

// Lookup resolves a reference to an entry. ref is either a 1-based
// position in List, optionally prefixed with '#', a file ID, or a share
// URL containing the file ID.
func (s *Store) Lookup(ref string) (Entry, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		entries, err := s.List()
		if err != nil {
			return Entry{}, err
		}
		if n < 1 || n > len(entries) {
			return Entry{}, fmt.Errorf("no history entry #%d: %w", n, ErrNotFound)
		}
		return entries[n-1], nil
	}

	if e, err := s.Get(ref); err == nil || !errors.Is(err, ErrNotFound) {
		return e, err
	}

	entries, err := s.List()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		marker := "/download/" + e.ID
		if e.URL == ref || strings.Contains(ref, marker+"/") || strings.HasSuffix(ref, marker) {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e                  Entry
		created, expiresAt int64
	)
	if err := row.Scan(&e.ID, &e.URL, &e.OwnerToken, &created, &expiresAt); err != nil {
		return Entry{}, err
	}
	e.CreatedAt = fromMillis(created)
	e.ExpiresAt = fromMillis(expiresAt)
	return e, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
