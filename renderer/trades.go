package renderer

import (
	"fmt"
	"strings"

	"github.com/rasticrookie/portfolio"
)

// TradesMarkdown renders the ledger, in ledger order.
func TradesMarkdown(trades []portfolio.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Trades\n\n")
	if len(trades) == 0 {
		fmt.Fprintln(&b, "_No trades recorded yet._")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | ID | Side | Symbol | Quantity | Price | Amount |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|")
	for _, t := range trades {
		date := ""
		if !t.Timestamp.IsZero() {
			date = t.Timestamp.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			date,
			t.ID,
			t.Side,
			t.Symbol,
			t.Quantity,
			t.Price,
			t.Amount(),
		)
	}
	return b.String()
}

// Trade renders a single trade to a sentence.
func Trade(t portfolio.Trade) string {
	switch t.Side {
	case portfolio.Buy:
		return fmt.Sprintf("Bought %s %s at %s (%s)", t.Quantity, t.Symbol, t.Price, t.ID)
	case portfolio.Sell:
		return fmt.Sprintf("Sold %s %s at %s (%s)", t.Quantity, t.Symbol, t.Price, t.ID)
	default:
		return t.String()
	}
}
