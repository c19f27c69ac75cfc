package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"crosscast/internal/config"
	"crosscast/internal/status"
)

// Entry is one recorded upload outcome.
type Entry struct {
	ID         int64
	UploadID   string
	BaseName   string
	SourcePath string
	Kind       status.Kind
	Platforms  []string
	Detail     string
	CreatedAt  time.Time
}

// Store persists upload history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS uploads (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    upload_id TEXT NOT NULL,
    base_name TEXT NOT NULL,
    source_path TEXT NOT NULL,
    kind TEXT NOT NULL,
    platforms TEXT NOT NULL DEFAULT '',
    detail TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at);
CREATE INDEX IF NOT EXISTS idx_uploads_base_name ON uploads(base_name);
`

// Open initializes or connects to the history database in the log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "history.db")
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

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Add records an upload outcome. The entry's ID and CreatedAt are filled in.
func (s *Store) Add(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("nil entry")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (upload_id, base_name, source_path, kind, platforms, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.UploadID,
		entry.BaseName,
		entry.SourcePath,
		string(entry.Kind),
		strings.Join(entry.Platforms, ","),
		entry.Detail,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("history entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// Recent returns up to limit entries, newest first. A limit of zero or less
// applies the default of 10.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, upload_id, base_name, source_path, kind, platforms, detail, created_at
		 FROM uploads ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// ByBaseName returns every entry recorded for the base name, newest first.
func (s *Store) ByBaseName(ctx context.Context, baseName string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, upload_id, base_name, source_path, kind, platforms, detail, created_at
		 FROM uploads WHERE base_name = ? ORDER BY created_at DESC, id DESC`, baseName)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// Stats returns entry counts grouped by outcome kind.
func (s *Store) Stats(ctx context.Context) (map[status.Kind]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, COUNT(1) FROM uploads GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("query history stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[status.Kind]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan history stats: %w", err)
		}
		stats[status.Kind(kind)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history stats: %w", err)
	}
	return stats, nil
}

// Prune deletes entries created before the cutoff and returns the count removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM uploads WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune history count: %w", err)
	}
	return deleted, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry     Entry
		kind      string
		platforms string
	)
	if err := rows.Scan(
		&entry.ID,
		&entry.UploadID,
		&entry.BaseName,
		&entry.SourcePath,
		&kind,
		&platforms,
		&entry.Detail,
		&entry.CreatedAt,
	); err != nil {
		return Entry{}, fmt.Errorf("scan history entry: %w", err)
	}
	entry.Kind = status.Kind(kind)
	if platforms != "" {
		entry.Platforms = strings.Split(platforms, ",")
	}
	return entry, nil
}
