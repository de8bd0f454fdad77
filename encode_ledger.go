package portfolio

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// tradeCmd is the persisted layout of a trade. It is the one written by the
// browser dashboard, so that existing storage slots can be read back.
type tradeCmd struct {
	ID       string          `json:"id"`
	Symbol   string          `json:"symbol"`
	Type     Side            `json:"type"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Date     string          `json:"date"`
}

// MarshalJSON writes a trade with a stable field order.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("symbol", t.Symbol)
	w.Append("type", t.Side)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	var date string
	if !t.Timestamp.IsZero() {
		date = t.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	w.Optional("date", date)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a trade. The currency is not part of the persisted
// layout, use DecodeTrades to attach the ledger currency.
func (t *Trade) UnmarshalJSON(data []byte) error {
	var c tradeCmd
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	var ts time.Time
	if c.Date != "" {
		var err error
		ts, err = time.Parse(time.RFC3339Nano, c.Date)
		if err != nil {
			return fmt.Errorf("invalid date for trade %q: %w", c.ID, err)
		}
	}
	*t = Trade{
		ID:        c.ID,
		Symbol:    NormalizeSymbol(c.Symbol),
		Side:      c.Type,
		Quantity:  Q(c.Quantity),
		Price:     M(c.Price, ""),
		Timestamp: ts,
	}
	return nil
}

// EncodeTrades serializes trades, in order, as a JSON array.
func EncodeTrades(trades []Trade) ([]byte, error) {
	if trades == nil {
		trades = []Trade{}
	}
	return json.Marshal(trades)
}

// DecodeTrades parses a JSON array of trades and prices them in 'currency'.
//
// Records that could never have been produced by NewTrade (empty symbol,
// unknown side, non-positive quantity, negative price) are rejected: the
// accounting engine assumes well-formed input.
func DecodeTrades(data []byte, currency string) ([]Trade, error) {
	var trades []Trade
	if err := json.Unmarshal(data, &trades); err != nil {
		return nil, fmt.Errorf("cannot decode trades: %w", err)
	}
	for i, t := range trades {
		switch {
		case t.ID == "":
			return nil, fmt.Errorf("trade #%d has no id", i)
		case t.Symbol == "":
			return nil, fmt.Errorf("trade %q has no symbol", t.ID)
		case t.Side != Buy && t.Side != Sell:
			return nil, fmt.Errorf("trade %q has unknown type %q", t.ID, t.Side)
		case !t.Quantity.IsPositive():
			return nil, fmt.Errorf("trade %q has non positive quantity %s", t.ID, t.Quantity)
		case t.Price.IsNegative():
			return nil, fmt.Errorf("trade %q has negative price %s", t.ID, t.Price.value)
		}
		trades[i].Price = t.Price.WithCurrency(currency)
	}
	return trades, nil
}
