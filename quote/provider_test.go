package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alphaVantageServer(t *testing.T, body string, status int) *AlphaVantage {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewAlphaVantage("test-key", srv.Client()).WithBaseURL(srv.URL)
}

func TestAlphaVantage_Quote(t *testing.T) {
	av := alphaVantageServer(t, `{
		"Global Quote": {
			"01. symbol": "MSFT",
			"05. price": "415.2600",
			"06. volume": "18092035",
			"09. change": "-2.0100",
			"10. change percent": "-0.4817%"
		}
	}`, http.StatusOK)

	q, err := av.Quote(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", q.Symbol)
	assert.Equal(t, "Microsoft Corporation", q.Name)
	assert.InDelta(t, 415.26, q.Price, 1e-9)
	assert.InDelta(t, -2.01, q.Change, 1e-9)
	assert.InDelta(t, -0.4817, q.ChangePercent, 1e-9)
	assert.Equal(t, int64(18092035), q.Volume)
	assert.False(t, q.Synthetic)
}

func TestAlphaVantage_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		status  int
		wantErr error
	}{
		{name: "rate limit note", body: `{"Note":"Thank you for using Alpha Vantage!"}`, status: http.StatusOK, wantErr: ErrRateLimited},
		{name: "information", body: `{"Information":"demo key"}`, status: http.StatusOK, wantErr: ErrRateLimited},
		{name: "empty quote", body: `{"Global Quote":{}}`, status: http.StatusOK, wantErr: ErrNoQuote},
		{name: "no quote", body: `{}`, status: http.StatusOK, wantErr: ErrNoQuote},
		{name: "zero price", body: `{"Global Quote":{"05. price":"0.0000"}}`, status: http.StatusOK, wantErr: ErrNoQuote},
		{name: "server error", body: `oops`, status: http.StatusInternalServerError},
		{name: "not json", body: `<html>`, status: http.StatusOK},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := alphaVantageServer(t, tc.body, tc.status).Quote(context.Background(), "IBM")
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestFinnhub_News(t *testing.T) {
	raw := make([]map[string]any, 0, 25)
	for i := 0; i < 25; i++ {
		raw = append(raw, map[string]any{
			"headline": fmt.Sprintf("headline %d", i),
			"source":   "Reuters",
			"url":      "https://example.com",
			"datetime": 1700000000 + i,
			"summary":  "",
			"related":  "aapl, MSFT,,",
		})
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news", r.URL.Path)
		assert.Equal(t, "general", r.URL.Query().Get("category"))
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		require.NoError(t, json.NewEncoder(w).Encode(raw))
	}))
	defer srv.Close()

	articles, err := NewFinnhub("tok", srv.Client()).WithBaseURL(srv.URL).News(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 20)
	a := articles[0]
	assert.Equal(t, "headline 0", a.Headline)
	assert.Equal(t, "headline 0", a.Summary, "an empty summary falls back to the headline")
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), a.PublishedAt)
	assert.Equal(t, []string{"AAPL", "MSFT"}, a.Tickers)
}

func TestFinnhub_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	_, err := NewFinnhub("tok", srv.Client()).WithBaseURL(srv.URL).News(context.Background())
	assert.ErrorIs(t, err, ErrNoNews)
}

func TestCompanyName(t *testing.T) {
	assert.Equal(t, "NVIDIA Corporation", CompanyName("NVDA"))
	assert.Equal(t, "PLTR", CompanyName("PLTR"))
}
