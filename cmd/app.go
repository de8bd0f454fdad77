// Package cmd implements the tradedash command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"

	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rasticrookie/portfolio"
	"github.com/rasticrookie/portfolio/config"
	"github.com/rasticrookie/portfolio/logger"
	"github.com/rasticrookie/portfolio/quote"
	"github.com/rasticrookie/portfolio/store"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&tradeCmd{side: portfolio.Buy}, "trades")
	c.Register(&tradeCmd{side: portfolio.Sell}, "trades")
	c.Register(&rmCmd{}, "trades")
	c.Register(&tradesCmd{}, "trades")
	c.Register(&positionsCmd{}, "trades")

	c.Register(&watchCmd{}, "market")
	c.Register(&quotesCmd{}, "market")
	c.Register(&newsCmd{}, "market")
	c.Register(&futuresCmd{}, "market")
	c.Register(&forexCmd{}, "market")
	c.Register(&cryptoCmd{}, "market")

	c.Register(&serveCmd{}, "server")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file. Defaults to tradedash.yaml in the current directory or in $HOME/.config/tradedash")
var storeKind = flag.String("store", "", "Override the storage backend (file, memory, redis, postgres)")
var raw = flag.Bool("raw", false, "Print reports as raw markdown instead of rendering them for the terminal")

// app is the runtime shared by the commands: configuration, logger and the
// opened store.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  portfolio.Store
	close  func() error
}

// openApp loads the configuration and opens the store it names.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *storeKind != "" {
		cfg.Store.Kind = *storeKind
	}
	log, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("cannot create logger: %w", err)
	}
	a := &app{cfg: cfg, logger: log, close: func() error { return nil }}
	if err := a.openStore(ctx); err != nil {
		_ = log.Sync()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Store.Kind {
	case config.StoreMemory:
		a.store = store.NewMemory()
	case config.StoreFile:
		s, err := store.NewFile(a.cfg.Store.Dir)
		if err != nil {
			return err
		}
		a.store = s
	case config.StoreRedis:
		s, err := store.NewRedis(ctx, store.RedisConfig{
			Addr:     a.cfg.Store.Redis.Addr,
			Password: a.cfg.Store.Redis.Password,
			DB:       a.cfg.Store.Redis.DB,
			Prefix:   a.cfg.Store.Redis.Prefix,
		}, a.logger)
		if err != nil {
			return err
		}
		a.store, a.close = s, s.Close
	case config.StorePostgres:
		s, err := store.NewPostgres(ctx, a.cfg.Store.Postgres.DSN, a.logger)
		if err != nil {
			return err
		}
		a.store, a.close = s, s.Close
	default:
		return fmt.Errorf("unknown store kind %q", a.cfg.Store.Kind)
	}
	return nil
}

// Close releases the store and flushes the logger.
func (a *app) Close() error {
	err := a.close()
	// syncing stderr fails on some terminals, that is not worth reporting.
	_ = a.logger.Sync()
	return err
}

func (a *app) options() []portfolio.Option {
	return []portfolio.Option{portfolio.WithCurrency(a.cfg.Currency), portfolio.WithLogger(a.logger)}
}

func (a *app) ledger(ctx context.Context) *portfolio.Ledger {
	return portfolio.LoadLedger(ctx, a.store, a.options()...)
}

func (a *app) watchlist(ctx context.Context) *portfolio.Watchlist {
	return portfolio.LoadWatchlist(ctx, a.store, a.options()...)
}

// market builds the market service. Providers are wrapped in circuit
// breakers, and omitted altogether in demo mode.
func (a *app) market(reg prometheus.Registerer) *quote.Market {
	metrics := quote.NewMetrics(reg)
	cache := quote.NewCache(
		quote.WithWindow(a.cfg.Market.Freshness),
		quote.WithLogger(a.logger),
		quote.WithMetrics(metrics),
	)
	opts := []quote.MarketOption{quote.WithMarketLogger(a.logger), quote.WithMarketMetrics(metrics)}
	if !a.cfg.Market.Demo {
		client := &http.Client{Timeout: a.cfg.Market.Timeout}
		breaker := quote.DefaultBreakerConfig()
		opts = append(opts,
			quote.WithQuoteProvider(quote.WithQuoteBreaker(quote.NewAlphaVantage(a.cfg.Market.AlphaVantageKey, client), breaker, a.logger)),
			quote.WithNewsProvider(quote.WithNewsBreaker(quote.NewFinnhub(a.cfg.Market.FinnhubKey, client), breaker, a.logger)),
		)
	}
	return quote.NewMarket(cache, opts...)
}

// withApp opens the app, runs f and closes the app, reporting errors the
// way every command does.
func withApp(ctx context.Context, f func(a *app) subcommands.ExitStatus) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		stderrf("Error: %v\n", err)
		return subcommands.ExitFailure
	}
	status := f(a)
	if err := a.Close(); err != nil {
		stderrf("Error closing store: %v\n", err)
		return subcommands.ExitFailure
	}
	return status
}

// failure prints err and returns the matching exit status: invalid user
// input is a usage error.
func failure(context string, err error) subcommands.ExitStatus {
	stderrf("Error %s: %v\n", context, err)
	if errors.Is(err, portfolio.ErrInvalidTrade) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
