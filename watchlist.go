package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// TrendingSymbols are always on the watchlist.
var TrendingSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "META", "AMD"}

// Watchlist is the list of extra tickers the user follows on top of the
// trending ones.
type Watchlist struct {
	store  Store
	logger *zap.Logger

	mu     sync.RWMutex
	extras []string
}

// LoadWatchlist reads the watchlist slot. Like LoadLedger it never fails, a
// missing or corrupted slot is an empty watchlist.
func LoadWatchlist(ctx context.Context, store Store, opts ...Option) *Watchlist {
	o := newOptions(opts)
	w := &Watchlist{store: store, logger: o.logger, extras: make([]string, 0)}

	data, err := store.Get(ctx, WatchlistSlot)
	if errors.Is(err, ErrSlotNotFound) {
		return w
	}
	if err != nil {
		w.logger.Warn("cannot read watchlist, starting empty", zap.Error(err))
		return w
	}
	var extras []string
	if err := json.Unmarshal(data, &extras); err != nil {
		w.logger.Warn("corrupted watchlist, starting empty", zap.Error(err))
		return w
	}
	for _, s := range extras {
		s = NormalizeSymbol(s)
		if s != "" && !slices.Contains(w.extras, s) {
			w.extras = append(w.extras, s)
		}
	}
	return w
}

// Add appends symbol to the watchlist. Adding a symbol already watched is a
// no-op and reports false.
func (w *Watchlist) Add(ctx context.Context, symbol string) (bool, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return false, &ValidationError{Field: "symbol", Value: symbol, Reason: "must not be empty"}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if slices.Contains(w.extras, symbol) || slices.Contains(TrendingSymbols, symbol) {
		return false, nil
	}
	next := append(slices.Clip(w.extras), symbol)
	if err := w.persist(ctx, next); err != nil {
		return false, err
	}
	w.extras = next
	return true, nil
}

// Remove removes symbol from the extra tickers. Removing an unknown symbol is
// a no-op and reports false. Trending symbols cannot be removed.
func (w *Watchlist) Remove(ctx context.Context, symbol string) (bool, error) {
	symbol = NormalizeSymbol(symbol)
	w.mu.Lock()
	defer w.mu.Unlock()
	i := slices.Index(w.extras, symbol)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(slices.Clone(w.extras), i, i+1)
	if err := w.persist(ctx, next); err != nil {
		return false, err
	}
	w.extras = next
	return true, nil
}

func (w *Watchlist) persist(ctx context.Context, extras []string) error {
	data, err := json.Marshal(extras)
	if err != nil {
		return fmt.Errorf("cannot encode watchlist: %w", err)
	}
	if err := w.store.Put(ctx, WatchlistSlot, data); err != nil {
		return fmt.Errorf("cannot save watchlist: %w", err)
	}
	return nil
}

// Extras returns the tickers added by the user.
func (w *Watchlist) Extras() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.extras)
}

// Symbols returns the trending symbols followed by the extras.
func (w *Watchlist) Symbols() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append(slices.Clone(TrendingSymbols), w.extras...)
}
