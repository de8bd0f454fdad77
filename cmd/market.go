package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"

	"github.com/rasticrookie/portfolio"
	"github.com/rasticrookie/portfolio/quote"
	"github.com/rasticrookie/portfolio/renderer"
)

type watchCmd struct{}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "manage the watchlist" }
func (*watchCmd) Usage() string {
	return `tradedash watch [list | add <symbol>... | rm <symbol>...]

  Lists the watched symbols, or adds and removes extra symbols. The trending
  symbols are always watched.
`
}

func (*watchCmd) SetFlags(f *flag.FlagSet) {}

func (*watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	action, symbols := "list", []string(nil)
	if f.NArg() > 0 {
		action, symbols = f.Arg(0), f.Args()[1:]
	}
	switch action {
	case "list":
	case "add", "rm":
		if len(symbols) == 0 {
			stderrf("Error: watch %s needs at least one symbol\n", action)
			return subcommands.ExitUsageError
		}
	default:
		stderrf("Error: unknown watch action %q, want list, add or rm\n", action)
		return subcommands.ExitUsageError
	}

	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		w := a.watchlist(ctx)
		for _, s := range symbols {
			var changed bool
			var err error
			if action == "add" {
				changed, err = w.Add(ctx, s)
			} else {
				changed, err = w.Remove(ctx, s)
			}
			if err != nil {
				return failure("updating watchlist", err)
			}
			switch {
			case changed:
			case action == "add":
				stderrf("Warning: %s is already watched\n", portfolio.NormalizeSymbol(s))
			default:
				stderrf("Warning: %s is not in the watchlist extras\n", portfolio.NormalizeSymbol(s))
			}
		}
		for _, s := range w.Symbols() {
			stdoutf("%s\n", s)
		}
		return subcommands.ExitSuccess
	})
}

type quotesCmd struct{}

func (*quotesCmd) Name() string     { return "quotes" }
func (*quotesCmd) Synopsis() string { return "display the latest quotes" }
func (*quotesCmd) Usage() string {
	return `tradedash quotes [<symbol>...]

  Displays the latest quotes of the given symbols, or of the watchlist.
  Quotes that could not be fetched are replaced by demo data.
`
}

func (*quotesCmd) SetFlags(f *flag.FlagSet) {}

func (*quotesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		symbols := a.watchlist(ctx).Symbols()
		title := "Watchlist"
		if f.NArg() > 0 {
			symbols, title = nil, "Quotes"
			for _, s := range f.Args() {
				if s = portfolio.NormalizeSymbol(s); s != "" {
					symbols = append(symbols, s)
				}
			}
		}
		res := a.market(nil).Watchlist(ctx, symbols)
		printMarkdown(renderer.QuotesMarkdown(title, res.Payload, res.Synthetic || quote.Demo(res.Payload)))
		return subcommands.ExitSuccess
	})
}

type futuresCmd struct{}

func (*futuresCmd) Name() string     { return "futures" }
func (*futuresCmd) Synopsis() string { return "display index and commodity futures" }
func (*futuresCmd) Usage() string {
	return `tradedash futures

  Displays the index and commodity futures. Futures are always demo data.
`
}

func (*futuresCmd) SetFlags(f *flag.FlagSet) {}

func (*futuresCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		res := a.market(nil).Futures(ctx)
		printMarkdown(renderer.QuotesMarkdown("Futures", res.Payload, res.Synthetic))
		return subcommands.ExitSuccess
	})
}

type forexCmd struct{}

func (*forexCmd) Name() string     { return "forex" }
func (*forexCmd) Synopsis() string { return "display the major currency pairs" }
func (*forexCmd) Usage() string {
	return `tradedash forex

  Displays the major currency pairs. Currency pairs are always demo data.
`
}

func (*forexCmd) SetFlags(f *flag.FlagSet) {}

func (*forexCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		res := a.market(nil).Forex(ctx)
		printMarkdown(renderer.QuotesMarkdown("Forex", res.Payload, res.Synthetic))
		return subcommands.ExitSuccess
	})
}

type cryptoCmd struct{}

func (*cryptoCmd) Name() string     { return "crypto" }
func (*cryptoCmd) Synopsis() string { return "display the major crypto currencies" }
func (*cryptoCmd) Usage() string {
	return `tradedash crypto

  Displays the major crypto currencies. Crypto quotes are always demo data.
`
}

func (*cryptoCmd) SetFlags(f *flag.FlagSet) {}

func (*cryptoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		res := a.market(nil).Crypto(ctx)
		printMarkdown(renderer.QuotesMarkdown("Crypto", res.Payload, res.Synthetic))
		return subcommands.ExitSuccess
	})
}

type newsCmd struct{}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "display the latest market news" }
func (*newsCmd) Usage() string {
	return `tradedash news

  Displays the latest market news, or demo news when they cannot be fetched.
`
}

func (*newsCmd) SetFlags(f *flag.FlagSet) {}

func (*newsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		res := a.market(nil).News(ctx)
		printMarkdown(renderer.NewsMarkdown(res.Payload, res.Synthetic, time.Now()))
		return subcommands.ExitSuccess
	})
}
