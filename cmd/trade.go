package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/rasticrookie/portfolio"
	"github.com/rasticrookie/portfolio/renderer"
)

// tradeCmd records a buy or a sell, depending on side.
type tradeCmd struct {
	side portfolio.Side
}

func (c *tradeCmd) Name() string { return string(c.side) }
func (c *tradeCmd) Synopsis() string {
	return fmt.Sprintf("record a %s trade in the ledger", c.side)
}
func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`tradedash %s <symbol> <quantity> <price>

  Records a %s of <quantity> shares of <symbol> at <price> per share.
  Quantity must be positive, price must not be negative.
`, c.side, c.side)
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		stderrf("Error: %s takes exactly 3 arguments: <symbol> <quantity> <price>\n", c.side)
		return subcommands.ExitUsageError
	}
	symbol, quantity, price := f.Arg(0), f.Arg(1), f.Arg(2)

	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		t, err := a.ledger(ctx).AddInput(ctx, symbol, string(c.side), quantity, price)
		if err != nil {
			return failure("recording trade", err)
		}
		stdoutf("%s\n", renderer.Trade(t))
		return subcommands.ExitSuccess
	})
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete trades from the ledger" }
func (*rmCmd) Usage() string {
	return `tradedash rm <id>...

  Deletes the trades with the given ids. Unknown ids are reported and ignored.
`
}

func (*rmCmd) SetFlags(f *flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		stderrf("Error: rm needs at least one trade id\n")
		return subcommands.ExitUsageError
	}

	return withApp(ctx, func(a *app) subcommands.ExitStatus {
		ledger := a.ledger(ctx)
		for _, id := range f.Args() {
			found, err := ledger.Delete(ctx, id)
			if err != nil {
				return failure("deleting trade", err)
			}
			if !found {
				stderrf("Warning: no trade with id %q\n", id)
				continue
			}
			stdoutf("Deleted trade %s\n", id)
		}
		return subcommands.ExitSuccess
	})
}
