// Package quote serves market quotes and news behind a time-boxed cache.
//
// Remote providers (AlphaVantage for quotes, Finnhub for news) are never
// trusted to be available: every lookup goes through FetchWithFallback and
// degrades to synthetic demo data when the provider fails, so that callers
// always get a payload.
package quote

import (
	"errors"
	"time"
)

var (
	// ErrNoQuote is returned by a provider that has no usable quote for a symbol.
	ErrNoQuote = errors.New("quote not found")
	// ErrRateLimited is returned when a provider answered with a rate limit notice.
	ErrRateLimited = errors.New("provider rate limit reached")
	// ErrNoNews is returned when a provider returned an empty news list.
	ErrNoNews = errors.New("no news available")
)

// Quote is the latest market data of a symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	// Synthetic is set on demo data generated in place of a failed lookup.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Article is a market news item.
type Article struct {
	Headline    string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
	Summary     string    `json:"summary"`
	Tickers     []string  `json:"tickers"`
}

var companyNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"MSFT":  "Microsoft Corporation",
	"GOOGL": "Alphabet Inc.",
	"AMZN":  "Amazon.com Inc.",
	"TSLA":  "Tesla Inc.",
	"NVDA":  "NVIDIA Corporation",
	"META":  "Meta Platforms Inc.",
	"AMD":   "Advanced Micro Devices Inc.",
}

// CompanyName returns the display name of symbol, or the symbol itself when
// unknown.
func CompanyName(symbol string) string {
	if name, ok := companyNames[symbol]; ok {
		return name
	}
	return symbol
}
