package portfolio

import "slices"

// Book maintains positions incrementally as trades are appended or removed.
//
// Positions of different symbols are independent, so appending a trade is a
// single fold step on its symbol, and removing a trade refolds only the
// trades of that symbol. The result is always identical to ComputePositions
// over the same trade sequence.
type Book struct {
	cur       string
	trades    map[string][]Trade // by symbol, in ledger order
	positions Positions
	oversells map[string][]Oversell // by symbol
}

// NewBook returns an empty book for currency cur.
func NewBook(cur string) *Book {
	return &Book{
		cur:       cur,
		trades:    make(map[string][]Trade),
		positions: make(Positions),
		oversells: make(map[string][]Oversell),
	}
}

// Append folds a trade at the end of the book.
func (b *Book) Append(t Trade) {
	p, exists := b.positions[t.Symbol]
	if !exists {
		p = newPosition(t.Symbol, b.cur)
	}
	filled := p.apply(t)
	if t.Side == Sell && filled.LessThan(t.Quantity) {
		b.oversells[t.Symbol] = append(b.oversells[t.Symbol], Oversell{TradeID: t.ID, Symbol: t.Symbol, Requested: t.Quantity, Filled: filled})
	}
	b.positions[t.Symbol] = p
	b.trades[t.Symbol] = append(b.trades[t.Symbol], t)
}

// Remove deletes every trade with this id and refolds the symbols they
// belonged to. It reports whether a trade was found.
func (b *Book) Remove(id string) bool {
	var symbols []string
	for symbol, trades := range b.trades {
		if slices.ContainsFunc(trades, func(t Trade) bool { return t.ID == id }) {
			symbols = append(symbols, symbol)
		}
	}
	for _, symbol := range symbols {
		trades := slices.DeleteFunc(b.trades[symbol], func(t Trade) bool { return t.ID == id })

		// Refold the symbol from scratch. A symbol disappears from the book
		// when its last trade is removed, as it would from a full fold.
		delete(b.positions, symbol)
		delete(b.oversells, symbol)
		delete(b.trades, symbol)
		for _, t := range trades {
			b.Append(t)
		}
	}
	return len(symbols) > 0
}

// Position returns the position for symbol, and whether the symbol was ever traded.
func (b *Book) Position(symbol string) (Position, bool) {
	p, ok := b.positions[symbol]
	return p, ok
}

// Positions returns a copy of all positions.
func (b *Book) Positions() Positions {
	out := make(Positions, len(b.positions))
	for k, v := range b.positions {
		out[k] = v
	}
	return out
}

// Oversells returns the clamped sells, grouped by symbol in alphabetical
// order and in ledger order within a symbol.
func (b *Book) Oversells() []Oversell {
	symbols := make([]string, 0, len(b.oversells))
	for s := range b.oversells {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)
	var out []Oversell
	for _, s := range symbols {
		out = append(out, b.oversells[s]...)
	}
	return out
}
