package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultAlphaVantageURL is the AlphaVantage query endpoint.
const DefaultAlphaVantageURL = "https://www.alphavantage.co/query"

/*
AlphaVantage provides quotes from the GLOBAL_QUOTE function:

	{
	    "Global Quote": {
	        "01. symbol": "IBM",
	        "05. price": "225.3400",
	        "06. volume": "3070936",
	        "07. latest trading day": "2024-10-04",
	        "09. change": "-1.4300",
	        "10. change percent": "-0.6306%"
	    }
	}

Rate limited calls are answered with a 200 and a "Note" or "Information"
field instead.
*/
type AlphaVantage struct {
	client  *http.Client
	key     string
	baseURL string
}

// NewAlphaVantage returns a provider using the API key. A nil client selects
// a client with an 8 seconds timeout.
func NewAlphaVantage(key string, client *http.Client) *AlphaVantage {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &AlphaVantage{client: client, key: key, baseURL: DefaultAlphaVantageURL}
}

// WithBaseURL returns a copy of the provider querying another endpoint.
func (a *AlphaVantage) WithBaseURL(base string) *AlphaVantage {
	c := *a
	c.baseURL = base
	return &c
}

func (a *AlphaVantage) Quote(ctx context.Context, symbol string) (Quote, error) {
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", a.key)
	addr := a.baseURL + "?" + q.Encode()

	var jobj map[string]any
	if err := jwget(ctx, a.client, addr, &jobj); err != nil {
		return Quote{}, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	return parseGlobalQuote(symbol, jobj)
}

func parseGlobalQuote(symbol string, jobj map[string]any) (Quote, error) {
	for _, notice := range []string{"Note", "Information"} {
		if msg, ok := jobj[notice]; ok {
			return Quote{}, fmt.Errorf("%w: %v", ErrRateLimited, msg)
		}
	}

	price, err := globalQuoteField(jobj, "05. price")
	if err != nil {
		return Quote{}, fmt.Errorf("%w for %q: %v", ErrNoQuote, symbol, err)
	}
	q := Quote{Symbol: symbol, Name: CompanyName(symbol)}
	if q.Price, err = strconv.ParseFloat(price, 64); err != nil || q.Price <= 0 {
		return Quote{}, fmt.Errorf("%w for %q: invalid price %q", ErrNoQuote, symbol, price)
	}

	// the remaining fields are informative, a missing one reads as zero.
	if s, err := globalQuoteField(jobj, "09. change"); err == nil {
		q.Change, _ = strconv.ParseFloat(s, 64)
	}
	if s, err := globalQuoteField(jobj, "10. change percent"); err == nil {
		q.ChangePercent, _ = strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	}
	if s, err := globalQuoteField(jobj, "06. volume"); err == nil {
		q.Volume, _ = strconv.ParseInt(s, 10, 64)
	}
	return q, nil
}

// globalQuoteField reads a string field of the "Global Quote" object.
func globalQuoteField(jobj map[string]any, field string) (string, error) {
	path := fmt.Sprintf(`$["Global Quote"][%q]`, field)
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", fmt.Errorf("error parsing %q: %w", path, err)
	}
	s, ok := jval.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("error parsing %q: not a string %v", path, jval)
	}
	return s, nil
}
