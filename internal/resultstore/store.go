package resultstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"

	"fpexport/internal/config"
)

var (
	// ErrNotFound is returned when no result is stored for a path.
	ErrNotFound = errors.New("no fingerprint result stored")
	// ErrInvalidDocument is returned when an imported document is not JSON.
	ErrInvalidDocument = errors.New("invalid fingerprint document")
)

// Result is one stored fingerprint document.
type Result struct {
	Path             string
	Strategy         string
	FingerprintCount int
	Document         string
	ImportedAt       time.Time
}

// Summary describes a stored result without its document.
type Summary struct {
	Path             string    `json:"path"`
	Strategy         string    `json:"strategy,omitempty"`
	FingerprintCount int       `json:"fingerprint_count"`
	DocumentBytes    int       `json:"document_bytes"`
	ImportedAt       time.Time `json:"imported_at"`
}

// Store manages fingerprint result persistence backed by SQLite.
type Store struct {
	db    *sql.DB
	path  string
	cache *lru.Cache[string, Result]
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the result database named by cfg.Store.Path.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("open result store: config is required")
	}
	dbPath := strings.TrimSpace(cfg.Store.Path)
	if dbPath == "" {
		return nil, errors.New("open result store: store.path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	size := cfg.Store.CacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, Result](size)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create document cache: %w", err)
	}

	if err := ensureSchema(context.Background(), db, dbPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: dbPath, cache: cache}, nil
}

// Path returns the database file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put inserts or replaces the result for r.Path.
func (s *Store) Put(ctx context.Context, r Result) error {
	key, err := normalizeKey(r.Path)
	if err != nil {
		return err
	}
	if r.ImportedAt.IsZero() {
		r.ImportedAt = time.Now()
	}
	r.Path = key

	_, err = s.execWithRetry(ctx, `
INSERT INTO results (path, strategy, fingerprint_count, document, imported_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    strategy = excluded.strategy,
    fingerprint_count = excluded.fingerprint_count,
    document = excluded.document,
    imported_at = excluded.imported_at`,
		key, r.Strategy, r.FingerprintCount, r.Document, r.ImportedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store result for %s: %w", key, err)
	}
	s.cache.Remove(key)
	return nil
}

// Get returns the stored result for path or ErrNotFound.
func (s *Store) Get(ctx context.Context, path string) (*Result, error) {
	key, err := normalizeKey(path)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(key); ok {
		r := cached
		return &r, nil
	}

	var (
		r           Result
		importedRaw string
	)
	err = retryOnBusy(ensureContext(ctx), func() error {
		return s.db.QueryRowContext(ensureContext(ctx),
			"SELECT path, strategy, fingerprint_count, document, imported_at FROM results WHERE path = ?", key,
		).Scan(&r.Path, &r.Strategy, &r.FingerprintCount, &r.Document, &importedRaw)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("load result for %s: %w", key, err)
	}
	r.ImportedAt = parseTime(importedRaw)

	s.cache.Add(key, r)
	return &r, nil
}

// JSON returns the stored document for path. It lets the store act as the
// fingerprint engine for an export run.
func (s *Store) JSON(ctx context.Context, path string) (string, error) {
	r, err := s.Get(ctx, path)
	if err != nil {
		return "", err
	}
	return r.Document, nil
}

// List returns summaries of every stored result ordered by path.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, strategy, fingerprint_count, length(CAST(document AS BLOB)), imported_at FROM results ORDER BY path",
	)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum         Summary
			importedRaw string
		)
		if err := rows.Scan(&sum.Path, &sum.Strategy, &sum.FingerprintCount, &sum.DocumentBytes, &importedRaw); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		sum.ImportedAt = parseTime(importedRaw)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

// Delete removes the result for path. It reports whether a row was removed.
func (s *Store) Delete(ctx context.Context, path string) (bool, error) {
	key, err := normalizeKey(path)
	if err != nil {
		return false, err
	}
	res, err := s.execWithRetry(ctx, "DELETE FROM results WHERE path = ?", key)
	if err != nil {
		return false, fmt.Errorf("delete result for %s: %w", key, err)
	}
	s.cache.Remove(key)
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete result for %s: %w", key, err)
	}
	return affected > 0, nil
}

func normalizeKey(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("result path is required")
	}
	abs, err := filepath.Abs(filepath.Clean(trimmed))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", trimmed, err)
	}
	return abs, nil
}

func parseTime(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil || !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			return lastErr
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, busyRetryMaxBackoff)
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	return res, err
}
