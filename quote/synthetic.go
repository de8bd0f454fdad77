package quote

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Synthesizer generates demo data when providers are unavailable.
//
// Each symbol gets a random seed the first time it is seen, so that the same
// symbol always reads the same synthetic quote for the life of the process.
type Synthesizer struct {
	random func() float64
	now    func() time.Time

	mu    sync.Mutex
	seeds map[string]float64
}

// NewSynthesizer returns a Synthesizer. random draws seeds in [0, 1), it
// defaults to math/rand. now defaults to time.Now.
func NewSynthesizer(random func() float64, now func() time.Time) *Synthesizer {
	if random == nil {
		random = rand.Float64
	}
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{random: random, now: now, seeds: make(map[string]float64)}
}

func (s *Synthesizer) seed(symbol string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seed, ok := s.seeds[symbol]
	if !ok {
		seed = s.random()
		s.seeds[symbol] = seed
	}
	return seed
}

// Quote returns the synthetic quote of symbol.
func (s *Synthesizer) Quote(symbol string) Quote {
	seed := s.seed(symbol)
	price := seed*500 + 100
	change := (seed - 0.5) * 20
	return Quote{
		Symbol:        symbol,
		Name:          CompanyName(symbol),
		Price:         price,
		Change:        change,
		ChangePercent: change / price * 100,
		Volume:        int64(math.Floor(seed*50_000_000)) + 1_000_000,
		Synthetic:     true,
	}
}

// Quotes returns the synthetic quotes of symbols, in order.
func (s *Synthesizer) Quotes(symbols []string) []Quote {
	quotes := make([]Quote, 0, len(symbols))
	for _, symbol := range symbols {
		quotes = append(quotes, s.Quote(symbol))
	}
	return quotes
}

// FuturesSymbols are the index and commodity futures shown next to the watchlist.
var FuturesSymbols = []string{"ES", "NQ", "YM", "CL", "GC"}

// ForexPairs are the currency pairs shown next to the watchlist.
var ForexPairs = []string{"EUR/USD", "GBP/USD", "USD/JPY", "USD/CHF", "AUD/USD"}

// CryptoSymbols are the crypto currencies shown next to the watchlist.
var CryptoSymbols = []string{"BTC", "ETH", "BNB", "SOL", "ADA"}

type instrument struct {
	name       string
	base, span float64
}

// board is a fixed list of instruments priced around base + seed·span, moving
// by up to swing/2 of the price.
type board struct {
	symbols     []string
	instruments map[string]instrument
	swing       float64
	volumeSpan  float64
	volumeBase  int64
}

var futures = board{
	symbols: FuturesSymbols,
	instruments: map[string]instrument{
		"ES": {"S&P 500 Futures", 4500, 500},
		"NQ": {"Nasdaq 100 Futures", 15000, 2000},
		"YM": {"Dow Jones Futures", 35000, 3000},
		"CL": {"Crude Oil Futures", 70, 30},
		"GC": {"Gold Futures", 1800, 400},
	},
	swing:      0.02,
	volumeSpan: 200_000,
	volumeBase: 50_000,
}

var forex = board{
	symbols: ForexPairs,
	instruments: map[string]instrument{
		"EUR/USD": {"EUR/USD", 1.08, 0.08},
		"GBP/USD": {"GBP/USD", 1.25, 0.10},
		"USD/JPY": {"USD/JPY", 148, 10},
		"USD/CHF": {"USD/CHF", 0.88, 0.06},
		"AUD/USD": {"AUD/USD", 0.65, 0.05},
	},
	swing:      0.015,
	volumeSpan: 500_000,
	volumeBase: 100_000,
}

var crypto = board{
	symbols: CryptoSymbols,
	instruments: map[string]instrument{
		"BTC": {"Bitcoin", 40000, 20000},
		"ETH": {"Ethereum", 2200, 800},
		"BNB": {"Binance Coin", 300, 200},
		"SOL": {"Solana", 100, 50},
		"ADA": {"Cardano", 0.45, 0.30},
	},
	swing:      0.08,
	volumeSpan: 2_000_000,
	volumeBase: 500_000,
}

// Futures returns synthetic quotes for FuturesSymbols. No provider serves
// futures, they are always synthetic.
func (s *Synthesizer) Futures() []Quote { return s.board(futures) }

// Forex returns synthetic quotes for ForexPairs, always synthetic.
func (s *Synthesizer) Forex() []Quote { return s.board(forex) }

// Crypto returns synthetic quotes for CryptoSymbols, always synthetic.
func (s *Synthesizer) Crypto() []Quote { return s.board(crypto) }

func (s *Synthesizer) board(b board) []Quote {
	quotes := make([]Quote, 0, len(b.symbols))
	for _, symbol := range b.symbols {
		in := b.instruments[symbol]
		seed := s.seed(symbol)
		price := in.base + seed*in.span
		change := (seed - 0.5) * price * b.swing
		quotes = append(quotes, Quote{
			Symbol:        symbol,
			Name:          in.name,
			Price:         price,
			Change:        change,
			ChangePercent: change / price * 100,
			Volume:        int64(math.Floor(seed*b.volumeSpan)) + b.volumeBase,
			Synthetic:     true,
		})
	}
	return quotes
}

// News returns the demo news list, most recent first, one hour apart.
func (s *Synthesizer) News() []Article {
	now := s.now()
	articles := []Article{
		{
			Headline: "Tech stocks rally as AI sector shows strong growth",
			Source:   "Market Watch",
			Summary:  "Major tech companies see significant gains driven by AI innovations and investor optimism.",
			Tickers:  []string{"NVDA", "MSFT", "GOOGL"},
		},
		{
			Headline: "Federal Reserve signals potential rate changes",
			Source:   "Financial Times",
			Summary:  "Market analysts predict volatility as Fed considers monetary policy adjustments.",
			Tickers:  []string{"SPY"},
		},
		{
			Headline: "Energy sector faces headwinds amid market uncertainty",
			Source:   "Reuters",
			Summary:  "Oil prices fluctuate as global demand concerns weigh on energy stocks.",
			Tickers:  []string{"XOM", "CVX"},
		},
		{
			Headline: "Electric vehicle sales surge in Q4 earnings reports",
			Source:   "Bloomberg",
			Summary:  "EV manufacturers report record sales, boosting stock valuations across the sector.",
			Tickers:  []string{"TSLA"},
		},
		{
			Headline: "Semiconductor shortage concerns resurface",
			Source:   "CNBC",
			Summary:  "Supply chain issues could impact tech hardware production in coming quarters.",
			Tickers:  []string{"AMD", "INTC"},
		},
	}
	for i := range articles {
		articles[i].URL = "#"
		articles[i].PublishedAt = now.Add(-time.Duration(i) * time.Hour)
	}
	return articles
}
