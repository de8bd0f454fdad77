package portfolio

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide parses "buy" or "sell", case insensitive.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown trade side %q, want %q or %q", s, Buy, Sell)
	}
}

// Trade is a single buy or sell of a security recorded by the user.
//
// A Trade is immutable once created. Processing order is the order in which
// trades were appended to the Ledger, Timestamp is only used for display.
type Trade struct {
	ID        string
	Symbol    string
	Side      Side
	Quantity  Quantity
	Price     Money // price per unit
	Timestamp time.Time
}

// Amount returns Quantity × Price.
func (t Trade) Amount() Money { return t.Price.Mul(t.Quantity) }

// String returns a short human readable description of the trade.
func (t Trade) String() string {
	return fmt.Sprintf("%s %s %s @ %s", t.Side, t.Quantity, t.Symbol, t.Price)
}

// NormalizeSymbol trims and uppercases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NewTrade validates its arguments and returns a new Trade created at 'now',
// priced in 'currency'.
//
// The ID is a UUIDv7 so that ids are unique and ordered by creation instant.
func NewTrade(now time.Time, currency, symbol string, side Side, quantity, price float64) (Trade, error) {
	t := Trade{
		Symbol:    NormalizeSymbol(symbol),
		Side:      side,
		Timestamp: now,
	}
	if err := validateTrade(t.Symbol, side, quantity, price); err != nil {
		return Trade{}, err
	}
	t.Quantity = Q(quantity)
	t.Price = M(price, currency)

	id, err := uuid.NewV7()
	if err != nil {
		return Trade{}, fmt.Errorf("cannot generate trade id: %w", err)
	}
	t.ID = id.String()
	return t, nil
}

// ParseTrade builds a Trade from raw user input, as typed in a form or on the
// command line.
func ParseTrade(now time.Time, currency, symbol, side, quantity, price string) (Trade, error) {
	s, err := ParseSide(side)
	if err != nil {
		return Trade{}, &ValidationError{Field: "side", Value: side, Reason: err.Error()}
	}
	q, err := parseFinite("quantity", quantity)
	if err != nil {
		return Trade{}, err
	}
	p, err := parseFinite("price", price)
	if err != nil {
		return Trade{}, err
	}
	return NewTrade(now, currency, symbol, s, q, p)
}
