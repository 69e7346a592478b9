/*
Package file provides a single-file implementation of the document storage
interface.

PURPOSE:
  Keeps the serialized document in one JSON file, the closest analog to the
  browser local-storage key the application originally persisted to. Saves
  write to a temporary sibling and rename into place so a crash mid-write
  never leaves a truncated document - the reconciler tolerates corruption,
  but there is no reason to produce it.
*/
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/warp/scout-engine/scouting"
)

// Store implements scouting.Backend using a single JSON file.
type Store struct {
	path string
}

// New creates a file backend at the given path. The file is created on
// first Save; its directory must exist.
func New(path string) *Store {
	return &Store{path: path}
}

// Load returns the file contents, or scouting.ErrNoDocument when the file
// does not exist yet.
func (s *Store) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, scouting.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	return data, nil
}

// Save atomically replaces the file contents.
func (s *Store) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".scout-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close document file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace document file: %w", err)
	}
	return nil
}
