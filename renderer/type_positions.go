package renderer

import (
	"github.com/rasticrookie/portfolio"
)

// Positions is the data of the positions report.
// Numbers are kept as exact decimal types (Money, Quantity), that already
// contain their renderers (String, SignedString).
type Positions struct {
	Currency        string          `json:"currency"`
	TotalInvested   portfolio.Money `json:"totalInvested"`
	TotalRealizedPL portfolio.Money `json:"totalRealizedPL"`
	ActivePositions int             `json:"activePositions"`
	TotalTrades     int             `json:"totalTrades"`
	// Positions sorted by symbol.
	Positions []PositionRow `json:"positions"`
	// Oversells lists the sells that were clamped.
	Oversells []OversellRow `json:"oversells,omitempty"`
}

// PositionRow is a single position.
type PositionRow struct {
	Symbol      string             `json:"symbol"`
	Quantity    portfolio.Quantity `json:"quantity"`
	AverageCost portfolio.Money    `json:"averageCost"`
	TotalCost   portfolio.Money    `json:"totalCost"`
	RealizedPL  portfolio.Money    `json:"realizedPL"`
}

// OversellRow is a sell clamped to the held quantity.
type OversellRow struct {
	TradeID   string             `json:"tradeId"`
	Symbol    string             `json:"symbol"`
	Requested portfolio.Quantity `json:"requested"`
	Filled    portfolio.Quantity `json:"filled"`
}

// NewPositions creates the positions report data in currency cur, for a
// ledger of trades trades.
func NewPositions(ps portfolio.Positions, oversells []portfolio.Oversell, trades int, cur string) *Positions {
	s := ps.Summary(cur)
	p := &Positions{
		Currency:        cur,
		TotalInvested:   s.TotalInvested,
		TotalRealizedPL: s.TotalRealizedPL,
		ActivePositions: s.ActivePositions,
		TotalTrades:     trades,
		Positions:       make([]PositionRow, 0, len(ps)),
	}
	for _, pos := range ps.Sorted() {
		p.Positions = append(p.Positions, PositionRow{
			Symbol:      pos.Symbol,
			Quantity:    pos.Quantity,
			AverageCost: pos.AverageCost,
			TotalCost:   pos.TotalCost,
			RealizedPL:  pos.RealizedPL,
		})
	}
	for _, o := range oversells {
		p.Oversells = append(p.Oversells, OversellRow{
			TradeID:   o.TradeID,
			Symbol:    o.Symbol,
			Requested: o.Requested,
			Filled:    o.Filled,
		})
	}
	return p
}
