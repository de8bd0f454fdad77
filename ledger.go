package portfolio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ledger is the ordered list of trades recorded by the user. It is the only
// source of truth for the portfolio, positions are derived from it.
//
// Trades are kept in insertion order. Every mutation rewrites the whole
// trades slot of the Store, and is applied in memory only if it could be
// persisted.
type Ledger struct {
	store  Store
	cur    string
	now    func() time.Time
	logger *zap.Logger

	mu     sync.RWMutex
	trades []Trade
	book   *Book
}

// Option configures a Ledger or a Watchlist.
type Option func(*options)

type options struct {
	cur    string
	now    func() time.Time
	logger *zap.Logger
}

// WithCurrency sets the currency trades are priced in. Defaults to USD.
func WithCurrency(cur string) Option { return func(o *options) { o.cur = cur } }

// WithClock sets the clock used to timestamp new trades.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithLogger sets the logger, defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

func newOptions(opts []Option) options {
	o := options{cur: DefaultCurrency, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewLedger creates an empty ledger persisted in store.
func NewLedger(store Store, opts ...Option) *Ledger {
	o := newOptions(opts)
	return &Ledger{
		store:  store,
		cur:    o.cur,
		now:    o.now,
		logger: o.logger,
		trades: make([]Trade, 0),
		book:   NewBook(o.cur),
	}
}

// LoadLedger reads the ledger from the trades slot of store.
//
// It never fails: a missing, unreadable or corrupted slot results in an empty
// ledger.
func LoadLedger(ctx context.Context, store Store, opts ...Option) *Ledger {
	l := NewLedger(store, opts...)
	data, err := store.Get(ctx, TradesSlot)
	if errors.Is(err, ErrSlotNotFound) {
		return l
	}
	if err != nil {
		l.logger.Warn("cannot read ledger, starting empty", zap.Error(err))
		return l
	}
	trades, err := DecodeTrades(data, l.cur)
	if err != nil {
		l.logger.Warn("corrupted ledger, starting empty", zap.Error(err))
		return l
	}
	for _, t := range trades {
		l.book.Append(t)
	}
	l.trades = trades
	l.logger.Debug("ledger loaded", zap.Int("trades", len(trades)))
	return l
}

// Currency returns the currency trades are priced in.
func (l *Ledger) Currency() string { return l.cur }

// Add validates and records a new trade.
//
// An invalid input returns a *ValidationError and leaves the ledger
// unchanged.
func (l *Ledger) Add(ctx context.Context, symbol string, side Side, quantity, price float64) (Trade, error) {
	t, err := NewTrade(l.now(), l.cur, symbol, side, quantity, price)
	if err != nil {
		return Trade{}, err
	}
	return t, l.append(ctx, t)
}

// AddInput is like Add for raw user input.
func (l *Ledger) AddInput(ctx context.Context, symbol, side, quantity, price string) (Trade, error) {
	t, err := ParseTrade(l.now(), l.cur, symbol, side, quantity, price)
	if err != nil {
		return Trade{}, err
	}
	return t, l.append(ctx, t)
}

func (l *Ledger) append(ctx context.Context, t Trade) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := append(slices.Clip(l.trades), t)
	if err := l.persist(ctx, next); err != nil {
		return err
	}
	l.trades = next
	l.book.Append(t)
	l.logger.Info("trade added", zap.String("id", t.ID), zap.String("trade", t.String()))
	return nil
}

// Delete removes every trade with this id, ids written by older clients may
// collide. Deleting an unknown id is a no-op, and reports false.
func (l *Ledger) Delete(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(l.trades), func(t Trade) bool { return t.ID == id })
	if len(next) == len(l.trades) {
		return false, nil
	}
	if err := l.persist(ctx, next); err != nil {
		return false, err
	}
	l.trades = next
	l.book.Remove(id)
	l.logger.Info("trade deleted", zap.String("id", id))
	return true, nil
}

// persist rewrites the trades slot with trades.
func (l *Ledger) persist(ctx context.Context, trades []Trade) error {
	data, err := EncodeTrades(trades)
	if err != nil {
		return fmt.Errorf("cannot encode ledger: %w", err)
	}
	if err := l.store.Put(ctx, TradesSlot, data); err != nil {
		return fmt.Errorf("cannot save ledger: %w", err)
	}
	return nil
}

// Trades returns a copy of the trades in ledger order.
func (l *Ledger) Trades() []Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.trades)
}

// Len returns the number of trades.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.trades)
}

// Positions returns the current positions.
func (l *Ledger) Positions() Positions {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.book.Positions()
}

// Oversells returns the sells that were clamped to the held quantity.
func (l *Ledger) Oversells() []Oversell {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.book.Oversells()
}

// Summary returns the portfolio aggregates.
func (l *Ledger) Summary() Summary {
	return l.Positions().Summary(l.cur)
}
