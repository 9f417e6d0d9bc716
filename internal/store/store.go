package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const (
	storeDirName   = ".hackspace"
	sqliteFileName = "session.sqlite"
)

// Store is a directory holding persisted workspace sessions, the event journal and UI state.
//
// The zero-configured Store opens the database for each operation, which suits one-shot CLI
// commands. Long-running callers use Open to keep a single connection for their lifetime.
type Store struct {
	Dir string

	db *sql.DB
}

// Open returns a copy of s that reuses one database connection until Close.
func (s Store) Open(ctx context.Context) (Store, error) {
	if s.db != nil {
		return s, nil
	}
	db, err := s.connect(ctx)
	if err != nil {
		return s, err
	}
	s.db = db
	return s, nil
}

// Close releases the connection held by an opened Store. It is a no-op otherwise.
func (s Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DiscoverDir walks up from start looking for a .hackspace directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, storeDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the store directory for a workspace.
//
// A disk-backed workspace keeps its store next to the files (<root>/.hackspace). Otherwise
// the nearest .hackspace above the working directory is used, falling back to ./.hackspace.
func DefaultDir(root string) (string, error) {
	if strings.TrimSpace(root) != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return "", err
		}
		return filepath.Join(abs, storeDirName), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, storeDirName), nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: empty dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// LogPath is where the TUI writes its log while it owns the terminal.
func (s Store) LogPath() string {
	return filepath.Join(s.Dir, "hackspace.log")
}

// openSQLite returns the database and a release func to call when the operation is done.
func (s Store) openSQLite(ctx context.Context) (*sql.DB, func(), error) {
	if s.db != nil {
		return s.db, func() {}, nil
	}
	db, err := s.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

func (s Store) connect(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// Pragmas below are per connection.
	db.SetMaxOpenConns(1)
	// WAL lets the CLI read while a TUI session is writing; busy_timeout avoids
	// "database is locked" when both write at once.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			workspace TEXT PRIMARY KEY,
			active_tab TEXT NOT NULL,
			expanded_json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tabs (
			workspace TEXT NOT NULL,
			pos INTEGER NOT NULL,
			name TEXT NOT NULL,
			language TEXT NOT NULL,
			has_errors INTEGER NOT NULL,
			modified INTEGER NOT NULL,
			path TEXT NOT NULL,
			PRIMARY KEY(workspace, name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tabs_pos ON tabs(workspace, pos);`,
		`CREATE TABLE IF NOT EXISTS buffers (
			workspace TEXT NOT NULL,
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY(workspace, name)
		);`,
		`CREATE TABLE IF NOT EXISTS stored_files (
			workspace TEXT NOT NULL,
			name TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY(workspace, name)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			workspace TEXT NOT NULL,
			type TEXT NOT NULL,
			subject TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			active_tab TEXT NOT NULL,
			open_tabs INTEGER NOT NULL,
			issued_at_unixms INTEGER NOT NULL,
			seq INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_workspace ON events(workspace, seq);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
