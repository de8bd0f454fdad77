package quote

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// constSeed always draws the same seed.
func constSeed(seed float64) func() float64 { return func() float64 { return seed } }

// stubQuotes answers from a map, unknown symbols fail.
type stubQuotes struct {
	prices map[string]float64
	calls  atomic.Int32
}

func (s *stubQuotes) Quote(_ context.Context, symbol string) (Quote, error) {
	s.calls.Add(1)
	p, ok := s.prices[symbol]
	if !ok {
		return Quote{}, ErrNoQuote
	}
	return Quote{Symbol: symbol, Name: CompanyName(symbol), Price: p}, nil
}

type stubNews struct {
	articles []Article
	err      error
	calls    atomic.Int32
}

func (s *stubNews) News(context.Context) ([]Article, error) {
	s.calls.Add(1)
	return s.articles, s.err
}
