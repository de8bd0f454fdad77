package cmd

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/google/subcommands"

	"github.com/rasticrookie/portfolio"
	"github.com/rasticrookie/portfolio/renderer"
)

type tradesCmd struct {
	symbol string
	head   int
	tail   int
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "list the trades in the ledger" }
func (*tradesCmd) Usage() string {
	return `tradedash trades [-s <symbol>] [-head <n>] [-tail <n>]

  Lists the trades in the order they were recorded.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only list the trades of this symbol.")
	f.IntVar(&c.head, "head", 0, "Show only the first N trades.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N trades.")
}

func (c *tradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		stderrf("Error: -head and -tail flags cannot be used together.\n")
		return subcommands.ExitUsageError
	}

	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		printMarkdown(renderer.TradesMarkdown(c.filter(a.ledger(ctx).Trades())))
		return subcommands.ExitSuccess
	})
}

func (c *tradesCmd) filter(all []portfolio.Trade) []portfolio.Trade {
	trades := all
	if c.symbol != "" {
		symbol := portfolio.NormalizeSymbol(c.symbol)
		trades = nil
		for _, t := range all {
			if t.Symbol == symbol {
				trades = append(trades, t)
			}
		}
	}
	if c.head > 0 && len(trades) > c.head {
		trades = trades[:c.head]
	}
	if c.tail > 0 && len(trades) > c.tail {
		trades = trades[len(trades)-c.tail:]
	}
	return trades
}

type positionsCmd struct {
	json bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display positions and realized P&L" }
func (*positionsCmd) Usage() string {
	return `tradedash positions [-json]

  Displays every position derived from the ledger with its average cost,
  open cost basis and realized P&L, followed by the clamped sells if any.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the positions as JSON.")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		ledger := a.ledger(ctx)
		report := renderer.NewPositions(ledger.Positions(), ledger.Oversells(), ledger.Len(), ledger.Currency())
		if c.json {
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return failure("encoding positions", err)
			}
			return subcommands.ExitSuccess
		}
		printMarkdown(renderer.RenderPositions(report))
		return subcommands.ExitSuccess
	})
}
