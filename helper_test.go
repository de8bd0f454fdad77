package portfolio

import (
	"context"
	"errors"
	"sync"
	"time"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// buy and sell are helpers to create valid trades without going through a
// ledger.
func buy(id, symbol string, q, p float64) Trade {
	return Trade{ID: id, Symbol: symbol, Side: Buy, Quantity: Q(q), Price: USD(p)}
}

func sell(id, symbol string, q, p float64) Trade {
	return Trade{ID: id, Symbol: symbol, Side: Sell, Quantity: Q(q), Price: USD(p)}
}

// fixedClock returns a clock that advances by one second at each call.
func fixedClock() func() time.Time {
	t := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// memStore is a minimal Store for tests.
type memStore struct {
	mu    sync.Mutex
	slots map[string][]byte
	puts  int
	fail  error // returned by Put when set
}

func newMemStore() *memStore { return &memStore{slots: make(map[string][]byte)} }

func (s *memStore) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.slots[name]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return data, nil
}

func (s *memStore) Put(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.puts++
	s.slots[name] = append([]byte(nil), data...)
	return nil
}

var errDiskFull = errors.New("disk full")

// samePositions compares positions with exact decimal equality.
func samePositions(a, b Positions) bool {
	if len(a) != len(b) {
		return false
	}
	for k, pa := range a {
		pb, ok := b[k]
		if !ok {
			return false
		}
		if pa.Symbol != pb.Symbol ||
			!pa.Quantity.Equal(pb.Quantity) ||
			!pa.AverageCost.Equal(pb.AverageCost) ||
			!pa.TotalCost.Equal(pb.TotalCost) ||
			!pa.RealizedPL.Equal(pb.RealizedPL) {
			return false
		}
	}
	return true
}
