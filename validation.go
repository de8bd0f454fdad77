package portfolio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTrade is wrapped by every trade validation failure.
var ErrInvalidTrade = errors.New("invalid trade")

// ValidationError describes why a trade was rejected. No record is created
// when it is returned.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidTrade }

// parseFinite parses a decimal user input, rejecting NaN and infinities.
func parseFinite(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: s, Reason: "not a number"}
	}
	if !isFinite(f) {
		return 0, &ValidationError{Field: field, Value: s, Reason: "not a finite number"}
	}
	return f, nil
}

// validateTrade checks a trade before it is appended to the ledger.
// The accounting engine relies on it and never re-validates.
func validateTrade(symbol string, side Side, quantity, price float64) error {
	if symbol == "" {
		return &ValidationError{Field: "symbol", Value: symbol, Reason: "must not be empty"}
	}
	if side != Buy && side != Sell {
		return &ValidationError{Field: "side", Value: string(side), Reason: "must be buy or sell"}
	}
	if !isFinite(quantity) || quantity <= 0 {
		return &ValidationError{Field: "quantity", Value: strconv.FormatFloat(quantity, 'g', -1, 64), Reason: "must be a positive number"}
	}
	if !isFinite(price) || price < 0 {
		return &ValidationError{Field: "price", Value: strconv.FormatFloat(price, 'g', -1, 64), Reason: "must be a non-negative number"}
	}
	return nil
}
