/*
Package sqlite provides a SQLite-backed implementation of the document
storage interface.

PURPOSE:
  Durable local storage for the single logical JSON document. The store
  layer always reads and writes the document as a whole, so the schema is
  one row per document key - SQLite here plays the role browser local
  storage plays in the original deployment, with real durability.

KEY TABLE:
  documents(key TEXT PRIMARY KEY, payload TEXT, updated_at TEXT)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the single writer
  - Better crash recovery for the whole-document upsert

USAGE:
  backend, err := sqlite.New("./data/scout.db")
  if err != nil {
      log.Fatal(err)
  }
  defer backend.Close()

  docs := scouting.New(backend)

SEE ALSO:
  - scouting/backend.go: Interface definition
  - scouting/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/scout-engine/scouting"
)

// defaultKey identifies the one document this application keeps.
const defaultKey = "soundScoutingData"

// Store implements scouting.Backend using SQLite.
type Store struct {
	db  *sql.DB
	key string
}

// New creates a SQLite backend with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, key: defaultKey}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		key        TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`

	_, err := s.db.Exec(schema)
	return err
}

// Load returns the stored document bytes, or scouting.ErrNoDocument when
// the row is absent.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM documents WHERE key = ?`, s.key,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, scouting.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return []byte(payload), nil
}

// Save upserts the whole document.
func (s *Store) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		s.key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}
