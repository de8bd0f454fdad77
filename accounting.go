package portfolio

import (
	"slices"
	"sort"
)

// Position is the holding of a single symbol derived from the ledger.
//
// Positions are always recomputed from trades, they are never persisted.
type Position struct {
	Symbol      string
	Quantity    Quantity // open quantity, never negative
	AverageCost Money    // TotalCost / Quantity, or zero when flat
	TotalCost   Money    // cost basis of the open quantity
	RealizedPL  Money    // cumulated over all sells, can be negative
}

// IsOpen reports whether some quantity is still held.
func (p Position) IsOpen() bool { return p.Quantity.IsPositive() }

// Oversell reports a sell that asked for more than the held quantity. The
// sell is clamped to the held quantity, the difference is simply ignored.
type Oversell struct {
	TradeID   string
	Symbol    string
	Requested Quantity
	Filled    Quantity
}

// apply folds one trade into a position, the position must be for the same
// symbol. It returns the clamped sell quantity, which equals the trade
// quantity for buys.
func (p *Position) apply(t Trade) (filled Quantity) {
	switch t.Side {
	case Buy:
		p.TotalCost = p.TotalCost.Add(t.Price.Mul(t.Quantity))
		p.Quantity = p.Quantity.Add(t.Quantity)
		if p.Quantity.IsPositive() {
			p.AverageCost = p.TotalCost.Div(p.Quantity)
		} else {
			p.AverageCost = M(0, p.TotalCost.Currency())
		}
		return t.Quantity
	case Sell:
		sellQty := t.Quantity.Min(p.Quantity)
		costBasis := p.AverageCost.Mul(sellQty)
		p.RealizedPL = p.RealizedPL.Add(t.Price.Mul(sellQty).Sub(costBasis))
		p.Quantity = p.Quantity.Sub(sellQty)
		if p.Quantity.IsNegative() {
			p.Quantity = Q(0)
		}
		// the average cost is unchanged by a sell.
		p.TotalCost = p.AverageCost.Mul(p.Quantity)
		return sellQty
	}
	return Q(0)
}

// newPosition returns a flat position in currency cur.
func newPosition(symbol, cur string) Position {
	return Position{
		Symbol:      symbol,
		AverageCost: M(0, cur),
		TotalCost:   M(0, cur),
		RealizedPL:  M(0, cur),
	}
}

// Positions maps a symbol to its position.
type Positions map[string]Position

// ComputePositions folds trades, in order, into positions.
//
// It is a pure function: the same trades always produce the same positions.
// Trades must be valid, as produced by NewTrade.
func ComputePositions(trades []Trade) Positions {
	positions, _ := replay(trades)
	return positions
}

// Oversells returns every sell in trades that was clamped because it
// exceeded the held quantity.
func Oversells(trades []Trade) []Oversell {
	_, oversells := replay(trades)
	return oversells
}

func replay(trades []Trade) (Positions, []Oversell) {
	positions := make(Positions)
	var oversells []Oversell
	for _, t := range trades {
		p, exists := positions[t.Symbol]
		if !exists {
			p = newPosition(t.Symbol, t.Price.Currency())
		}
		filled := p.apply(t)
		if t.Side == Sell && filled.LessThan(t.Quantity) {
			oversells = append(oversells, Oversell{TradeID: t.ID, Symbol: t.Symbol, Requested: t.Quantity, Filled: filled})
		}
		positions[t.Symbol] = p
	}
	return positions, oversells
}

// Sorted returns positions ordered by symbol.
func (ps Positions) Sorted() []Position {
	out := make([]Position, 0, len(ps))
	for _, p := range ps {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Summary aggregates positions at the portfolio level.
type Summary struct {
	TotalInvested   Money // sum of open cost basis
	TotalRealizedPL Money
	ActivePositions int // positions with an open quantity
	Symbols         []string
}

// Summary computes the portfolio aggregates of ps, in currency cur.
func (ps Positions) Summary(cur string) Summary {
	s := Summary{
		TotalInvested:   M(0, cur),
		TotalRealizedPL: M(0, cur),
	}
	for symbol, p := range ps {
		// flat positions have a zero total cost already.
		s.TotalInvested = s.TotalInvested.Add(p.TotalCost)
		s.TotalRealizedPL = s.TotalRealizedPL.Add(p.RealizedPL)
		if p.IsOpen() {
			s.ActivePositions++
		}
		s.Symbols = append(s.Symbols, symbol)
	}
	slices.Sort(s.Symbols)
	return s
}
