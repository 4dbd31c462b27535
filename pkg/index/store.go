// Package index keeps a SQLite index of the declarations of many source
// files so names can be found without parsing every file again.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"

	"cxxscope/pkg/logging"
)

// Entry is one indexed declaration
type Entry struct {
	File          string
	Name          string
	QualifiedName string
	Kind          string
	Offset        int
	Length        int
	Line          int
	Column        int
	Definition    bool
}

// Store is the declaration index. Readers share a read lock; replacing
// the entries of a file takes the write lock.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
	log  *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS files (
	id         INTEGER PRIMARY KEY,
	path       TEXT NOT NULL UNIQUE,
	hash       TEXT NOT NULL,
	indexed_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS declarations (
	id             INTEGER PRIMARY KEY,
	file_id        INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	name           TEXT NOT NULL,
	qualified_name TEXT NOT NULL,
	kind           TEXT NOT NULL,
	start_offset   INTEGER NOT NULL,
	length         INTEGER NOT NULL,
	line           INTEGER NOT NULL,
	col            INTEGER NOT NULL,
	definition     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_declarations_name ON declarations(name);
CREATE INDEX IF NOT EXISTS idx_declarations_qualified ON declarations(qualified_name);
`

// Open opens or creates the index database at path. The path ":memory:"
// gives a private in-memory index.
func Open(path string, logger *slog.Logger) (*Store, error) {
	log := logging.OrDiscard(logger)
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	// one connection: the in-memory database lives in it, and writers are
	// serialized by the store anyway
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	log.Debug("opened index", "path", path)
	return &Store{db: db, path: path, log: log}, nil
}

// Close closes the database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Hash returns the content hash stored for files
func Hash(content string) string {
	return strconv.FormatUint(xxhash.Sum64String(content), 16)
}

// FileHash returns the hash recorded for path, or "" when the file is not
// indexed
func (s *Store) FileHash(ctx context.Context, path string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT hash FROM files WHERE path = ?`, path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}

// Replace stores entries as the declarations of path
func (s *Store) Replace(ctx context.Context, path, hash string, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var fileID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO files (path, hash, indexed_at) VALUES (?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, indexed_at = excluded.indexed_at
			RETURNING id`, path, hash, time.Now().Unix()).Scan(&fileID)
		if err != nil {
			return fmt.Errorf("failed to record file: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM declarations WHERE file_id = ?`, fileID); err != nil {
			return fmt.Errorf("failed to clear declarations: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO declarations (file_id, name, qualified_name, kind, start_offset, length, line, col, definition)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, fileID, e.Name, e.QualifiedName, e.Kind,
				e.Offset, e.Length, e.Line, e.Column, e.Definition); err != nil {
				return fmt.Errorf("failed to insert %s: %w", e.QualifiedName, err)
			}
		}
		return nil
	})
}

// Remove drops path and its declarations
func (s *Store) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE path = ?`, path)
	return err
}

// Files lists the indexed paths
func (s *Store) Files(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM files ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Lookup finds declarations by qualified name, or by simple name when
// name has no qualifier. Definitions come first.
func (s *Store) Lookup(ctx context.Context, name string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.path, d.name, d.qualified_name, d.kind, d.start_offset, d.length, d.line, d.col, d.definition
		FROM declarations d JOIN files f ON f.id = d.file_id
		WHERE d.qualified_name = ?1 OR (d.name = ?1 AND instr(?1, '::') = 0)
		ORDER BY d.definition DESC, f.path, d.start_offset`, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.File, &e.Name, &e.QualifiedName, &e.Kind,
			&e.Offset, &e.Length, &e.Line, &e.Column, &e.Definition); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Debug("rollback failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}
