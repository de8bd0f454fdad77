// Package store provides the durable slot storages a ledger and a watchlist
// are persisted in.
//
// Every implementation satisfies portfolio.Store: a slot is a single
// document, read and rewritten in full, and a slot never written is reported
// as portfolio.ErrSlotNotFound.
package store

import (
	"bytes"
	"context"
	"sync"

	"github.com/rasticrookie/portfolio"
)

// Memory is a volatile Store, for tests and demo runs.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[name]
	if !ok {
		return nil, portfolio.ErrSlotNotFound
	}
	return bytes.Clone(data), nil
}

func (m *Memory) Put(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = bytes.Clone(data)
	return nil
}
