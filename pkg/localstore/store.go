package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikitaCodeSave/qdrant-fastapi/pkg/vectordb"
)

const (
	// DatabaseFile is the file created inside a directory path.
	DatabaseFile = "vectors.db"

	// MemoryPath opens a private in-memory database.
	MemoryPath = ":memory:"

	defaultBusyTimeout = 5 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name        TEXT PRIMARY KEY,
	vector_size INTEGER NOT NULL,
	distance    TEXT NOT NULL,
	on_disk     INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS points (
	collection TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
	id         TEXT NOT NULL,
	vector     BLOB NOT NULL,
	payload    TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (collection, id)
);
`

// Options configures Open.
type Options struct {
	// Path is a directory (vectors.db is created inside), a file ending in
	// .db/.sqlite, or ":memory:".
	Path string

	// BusyTimeout bounds how long a writer waits on a locked database.
	BusyTimeout time.Duration
}

// Store is a vectordb.Backend backed by SQLite. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

var _ vectordb.Backend = (*Store)(nil)

// Open creates or opens the database at opts.Path and applies the schema.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("localstore: empty path")
	}
	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}

	dsn, file, err := dataSource(opts.Path, busy)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("localstore: open %s: %w", file, err)
	}
	if opts.Path == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("localstore: apply schema: %w", err)
	}
	return &Store{db: db, path: file}, nil
}

func dataSource(path string, busy time.Duration) (dsn, file string, err error) {
	pragmas := fmt.Sprintf("_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", busy.Milliseconds())
	if path == MemoryPath {
		return "file::memory:?" + pragmas, MemoryPath, nil
	}

	file = path
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".db" && ext != ".sqlite" && ext != ".sqlite3" {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return "", "", fmt.Errorf("localstore: create %s: %w", path, err)
		}
		file = filepath.Join(path, DatabaseFile)
	} else if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", fmt.Errorf("localstore: create %s: %w", dir, err)
		}
	}
	return "file:" + file + "?" + pragmas + "&_pragma=journal_mode(WAL)", file, nil
}

// Path returns the database file in use.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
