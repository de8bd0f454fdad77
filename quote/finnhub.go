package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultFinnhubURL is the Finnhub API root.
const DefaultFinnhubURL = "https://finnhub.io/api/v1"

// maxArticles is the number of articles kept from a news response.
const maxArticles = 20

// Finnhub provides general market news.
type Finnhub struct {
	client  *http.Client
	key     string
	baseURL string
}

// NewFinnhub returns a provider using the API token. A nil client selects a
// client with an 8 seconds timeout.
func NewFinnhub(key string, client *http.Client) *Finnhub {
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}
	return &Finnhub{client: client, key: key, baseURL: DefaultFinnhubURL}
}

// WithBaseURL returns a copy of the provider querying another endpoint.
func (f *Finnhub) WithBaseURL(base string) *Finnhub {
	c := *f
	c.baseURL = base
	return &c
}

type finnhubArticle struct {
	Headline string `json:"headline"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"` // unix seconds
	Summary  string `json:"summary"`
	Related  string `json:"related"` // comma separated tickers
}

func (f *Finnhub) News(ctx context.Context) ([]Article, error) {
	q := url.Values{}
	q.Set("category", "general")
	q.Set("token", f.key)
	addr := f.baseURL + "/news?" + q.Encode()

	var raw []finnhubArticle
	if err := jwget(ctx, f.client, addr, &raw); err != nil {
		return nil, fmt.Errorf("error retrieving news: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoNews
	}
	if len(raw) > maxArticles {
		raw = raw[:maxArticles]
	}

	articles := make([]Article, 0, len(raw))
	for _, a := range raw {
		article := Article{
			Headline:    a.Headline,
			Source:      a.Source,
			URL:         a.URL,
			PublishedAt: time.Unix(a.Datetime, 0).UTC(),
			Summary:     a.Summary,
			Tickers:     splitTickers(a.Related),
		}
		if article.Summary == "" {
			article.Summary = a.Headline
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func splitTickers(related string) []string {
	tickers := make([]string, 0)
	for _, t := range strings.Split(related, ",") {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}
