// Package store provides Backend implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/scout-engine/scouting"
)

// =============================================================================
// MEMORY BACKEND - In-memory implementation (for testing/dev)
// =============================================================================

// Memory holds the serialized document in process memory. Safe for
// concurrent use. Tests can inject failures to exercise the store's
// storage-unavailable degradation.
type Memory struct {
	mu      sync.RWMutex
	data    []byte
	present bool
	loadErr error
	saveErr error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if !m.present {
		return nil, scouting.ErrNoDocument
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *Memory) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.present = true
	return nil
}

// FailLoads makes every subsequent Load return err. Pass nil to restore
// normal behavior.
func (m *Memory) FailLoads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSaves makes every subsequent Save return err. Pass nil to restore
// normal behavior.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Bytes returns the currently stored payload, or nil when none exists.
func (m *Memory) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.present {
		return nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}
