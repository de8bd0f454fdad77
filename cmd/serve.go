package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/rasticrookie/portfolio/api"
	"github.com/rasticrookie/portfolio/quote"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard JSON API" }
func (*serveCmd) Usage() string {
	return `tradedash serve [-addr <host:port>]

  Serves the JSON API of the dashboard and refreshes the watchlist quotes and
  the news in the background, until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address. Defaults to server.addr from the configuration.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		addr := c.addr
		if addr == "" {
			addr = a.cfg.Server.Addr
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		ledger := a.ledger(ctx)
		watchlist := a.watchlist(ctx)
		market := a.market(reg)

		refresher := quote.NewRefresher(market, watchlist.Symbols, a.cfg.Market.WatchlistRefresh, a.cfg.Market.NewsRefresh, a.logger)
		if err := refresher.Start(ctx); err != nil {
			return failure("starting refresher", err)
		}
		defer func() {
			<-refresher.Stop().Done()
		}()

		a.logger.Info("Starting tradedash",
			zap.String("environment", a.cfg.Environment),
			zap.String("store", a.cfg.Store.Kind),
			zap.Bool("demo", a.cfg.Market.Demo),
		)
		server := api.New(api.Config{
			Ledger:    ledger,
			Watchlist: watchlist,
			Market:    market,
			Gatherer:  reg,
			Logger:    a.logger,
		})
		if err := server.Run(ctx, addr); err != nil {
			return failure("serving API", err)
		}
		return subcommands.ExitSuccess
	})
}
