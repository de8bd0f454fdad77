package portfolio

import (
	"context"
	"errors"
)

// Slot names used in the durable store.
const (
	TradesSlot    = "trades"
	WatchlistSlot = "watchlist"
)

// ErrSlotNotFound is returned by a Store when a slot has never been written.
var ErrSlotNotFound = errors.New("slot not found")

// Store is a durable key/value storage made of named slots. Each slot holds a
// single document that is always read and rewritten in full.
//
// Implementations live in the store package.
type Store interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
}
