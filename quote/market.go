package quote

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// errNoProvider is the primary error of a market without provider, its
// lookups always fall back to demo data.
var errNoProvider = errors.New("no provider configured")

// Market answers quote and news lookups through a Cache.
type Market struct {
	cache   *Cache
	quotes  QuoteProvider
	news    NewsProvider
	synth   *Synthesizer
	logger  *zap.Logger
	metrics *Metrics
}

// MarketOption configures a Market.
type MarketOption func(*Market)

// WithQuoteProvider sets the quote provider. Without one, quotes are synthetic.
func WithQuoteProvider(p QuoteProvider) MarketOption { return func(m *Market) { m.quotes = p } }

// WithNewsProvider sets the news provider. Without one, news are synthetic.
func WithNewsProvider(p NewsProvider) MarketOption { return func(m *Market) { m.news = p } }

// WithSynthesizer sets the fallback generator.
func WithSynthesizer(s *Synthesizer) MarketOption { return func(m *Market) { m.synth = s } }

// WithMarketLogger sets the logger of the market.
func WithMarketLogger(l *zap.Logger) MarketOption { return func(m *Market) { m.logger = l } }

// WithMarketMetrics counts provider errors.
func WithMarketMetrics(metrics *Metrics) MarketOption {
	return func(m *Market) { m.metrics = metrics }
}

// NewMarket returns a Market caching its lookups in cache.
func NewMarket(cache *Cache, opts ...MarketOption) *Market {
	m := &Market{cache: cache, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	if m.synth == nil {
		m.synth = NewSynthesizer(nil, nil)
	}
	return m
}

// WatchlistKey is the cache key of a watchlist lookup. Each symbol set has
// its own key.
func WatchlistKey(symbols []string) string { return "stocks_" + strings.Join(symbols, "_") }

// QuoteKey is the cache key of a single quote lookup.
func QuoteKey(symbol string) string { return "quote_" + symbol }

// NewsKey is the cache key of the news lookup.
const NewsKey = "news"

// Cache keys of the synthetic boards.
const (
	FuturesKey = "futures_data"
	ForexKey   = "forex_data"
	CryptoKey  = "crypto_data"
)

// Watchlist returns the quotes of symbols, in order.
//
// Symbols are fetched concurrently. A symbol whose lookup fails is replaced
// by its synthetic quote, and only when every lookup fails is the whole list
// reported as synthetic.
func (m *Market) Watchlist(ctx context.Context, symbols []string) Result[[]Quote] {
	return FetchWithFallback(ctx, m.cache, WatchlistKey(symbols),
		func(ctx context.Context) ([]Quote, error) { return m.fetchQuotes(ctx, symbols) },
		func() []Quote { return m.synth.Quotes(symbols) },
	)
}

// RefreshWatchlist fetches the quotes of symbols even if the cached ones are
// still fresh, and caches them for Watchlist.
func (m *Market) RefreshWatchlist(ctx context.Context, symbols []string) Result[[]Quote] {
	return Refresh(ctx, m.cache, WatchlistKey(symbols),
		func(ctx context.Context) ([]Quote, error) { return m.fetchQuotes(ctx, symbols) },
		func() []Quote { return m.synth.Quotes(symbols) },
	)
}

func (m *Market) fetchQuotes(ctx context.Context, symbols []string) ([]Quote, error) {
	if m.quotes == nil {
		return nil, errNoProvider
	}
	quotes := make([]Quote, len(symbols))
	errs := make([]error, len(symbols))
	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func() {
			defer wg.Done()
			quotes[i], errs[i] = m.quotes.Quote(ctx, symbol)
		}()
	}
	wg.Wait()

	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		m.metrics.providerError("quotes")
		m.logger.Warn("quote lookup failed, using demo data", zap.String("symbol", symbols[i]), zap.Error(err))
		quotes[i] = m.synth.Quote(symbols[i])
	}
	if len(symbols) > 0 && failed == len(symbols) {
		return nil, errors.Join(errs...)
	}
	return quotes, nil
}

// Quote returns the quote of a single symbol.
func (m *Market) Quote(ctx context.Context, symbol string) Result[Quote] {
	return FetchWithFallback(ctx, m.cache, QuoteKey(symbol),
		func(ctx context.Context) (Quote, error) {
			if m.quotes == nil {
				return Quote{}, errNoProvider
			}
			q, err := m.quotes.Quote(ctx, symbol)
			if err != nil {
				m.metrics.providerError("quotes")
			}
			return q, err
		},
		func() Quote { return m.synth.Quote(symbol) },
	)
}

// News returns the latest market news.
func (m *Market) News(ctx context.Context) Result[[]Article] {
	return FetchWithFallback(ctx, m.cache, NewsKey, m.fetchNews, m.synth.News)
}

// RefreshNews fetches the news even if the cached ones are still fresh, and
// caches them for News.
func (m *Market) RefreshNews(ctx context.Context) Result[[]Article] {
	return Refresh(ctx, m.cache, NewsKey, m.fetchNews, m.synth.News)
}

func (m *Market) fetchNews(ctx context.Context) ([]Article, error) {
	if m.news == nil {
		return nil, errNoProvider
	}
	articles, err := m.news.News(ctx)
	if err != nil {
		m.metrics.providerError("news")
	}
	return articles, err
}

// Futures returns the futures quotes, always synthetic.
func (m *Market) Futures(ctx context.Context) Result[[]Quote] {
	return m.board(ctx, FuturesKey, m.synth.Futures)
}

// Forex returns the currency pair quotes, always synthetic.
func (m *Market) Forex(ctx context.Context) Result[[]Quote] {
	return m.board(ctx, ForexKey, m.synth.Forex)
}

// Crypto returns the crypto currency quotes, always synthetic.
func (m *Market) Crypto(ctx context.Context) Result[[]Quote] {
	return m.board(ctx, CryptoKey, m.synth.Crypto)
}

func (m *Market) board(ctx context.Context, key string, synth func() []Quote) Result[[]Quote] {
	res := FetchWithFallback(ctx, m.cache, key,
		func(context.Context) ([]Quote, error) { return synth(), nil },
		synth,
	)
	res.Synthetic = true
	return res
}

// Demo reports whether q holds synthetic data, in whole or in part.
func Demo(quotes []Quote) bool {
	for _, q := range quotes {
		if q.Synthetic {
			return true
		}
	}
	return false
}
