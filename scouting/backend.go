/*
backend.go - Persistence interface for the stored document

PURPOSE:
  Defines the interface between the document store and whatever holds the
  bytes. The store reads and writes one logical JSON document as a whole;
  there are no partial writes and no transaction log, so the contract is
  deliberately tiny.

CONTRACT:
  Load returns the raw document bytes, or ErrNoDocument when nothing has
  been stored yet. Any other error means "storage unavailable": the store
  degrades reads to an in-memory default and writes to no-ops, reporting
  through the diagnostic sink. Persistence is best-effort, never guaranteed
  durable.

IMPLEMENTATIONS:
  - scouting/store:  in-memory, for tests and development
  - store/sqlite:    durable single-row SQLite table
  - store/file:      one JSON file, atomic rename on save
*/
package scouting

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by Backend.Load when no document has been
// stored yet. It is the one Load error that does not count as storage
// being unavailable.
var ErrNoDocument = errors.New("no document stored")

// Backend holds the serialized document.
type Backend interface {
	// Load returns the stored document bytes, or ErrNoDocument.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored document bytes.
	Save(ctx context.Context, data []byte) error
}
