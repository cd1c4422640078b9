package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"unicsv/internal/config"
	"unicsv/internal/transcoder"
)

// File is one tracked path with its detection result and conversion history.
type File struct {
	ID              string
	Path            string
	Encoding        transcoder.Encoding
	CreatedAt       time.Time
	LastConvertedAt time.Time
}

// Store persists the tracked-file set in SQLite so separate CLI invocations
// agree on which files need restoring.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS tracked_files (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    encoding TEXT NOT NULL,
    created_at TEXT NOT NULL,
    last_converted_at TEXT
)`

// Open initializes or connects to the tracker database in the data directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "tracked.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
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

// Add records path with its detected encoding, replacing any previous row
// for the same path.
func (s *Store) Add(ctx context.Context, path string, enc transcoder.Encoding) (*File, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO tracked_files (id, path, encoding, created_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET encoding = excluded.encoding`,
		uuid.NewString(),
		path,
		enc.String(),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert tracked file: %w", err)
	}
	return s.Get(ctx, path)
}

// MarkConverted stamps the last successful conversion time for path.
func (s *Store) MarkConverted(ctx context.Context, path string, at time.Time) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE tracked_files SET last_converted_at = ? WHERE path = ?`,
		at.UTC().Format(time.RFC3339Nano),
		path,
	)
	if err != nil {
		return fmt.Errorf("mark converted: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark converted: %s is not tracked", path)
	}
	return nil
}

// Remove forgets path. Removing an untracked path is not an error.
func (s *Store) Remove(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tracked_files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("remove tracked file: %w", err)
	}
	return nil
}

// Get returns the tracked record for path, or nil when path is untracked.
func (s *Store) Get(ctx context.Context, path string) (*File, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, path, encoding, created_at, last_converted_at FROM tracked_files WHERE path = ?`,
		path,
	)
	file, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tracked file: %w", err)
	}
	return file, nil
}

// Contains reports whether path is tracked.
func (s *Store) Contains(ctx context.Context, path string) (bool, error) {
	file, err := s.Get(ctx, path)
	if err != nil {
		return false, err
	}
	return file != nil, nil
}

// List returns every tracked file ordered by path.
func (s *Store) List(ctx context.Context) ([]*File, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, path, encoding, created_at, last_converted_at FROM tracked_files ORDER BY path`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tracked files: %w", err)
	}
	defer rows.Close()

	var files []*File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tracked file: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracked files: %w", err)
	}
	return files, nil
}

// Snapshot materializes the persistent set as an in-memory Set.
func (s *Store) Snapshot(ctx context.Context) (Set, error) {
	files, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	set := make(Set, len(files))
	for _, file := range files {
		set[file.Path] = file.Encoding
	}
	return set, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*File, error) {
	var (
		file        File
		encName     string
		createdAt   string
		convertedAt sql.NullString
	)
	if err := row.Scan(&file.ID, &file.Path, &encName, &createdAt, &convertedAt); err != nil {
		return nil, err
	}

	enc, err := transcoder.ParseEncoding(encName)
	if err != nil {
		return nil, err
	}
	file.Encoding = enc

	if file.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if convertedAt.Valid {
		if file.LastConvertedAt, err = time.Parse(time.RFC3339Nano, convertedAt.String); err != nil {
			return nil, fmt.Errorf("parse last_converted_at: %w", err)
		}
	}
	return &file, nil
}
