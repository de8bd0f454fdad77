package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/subcommands"

	"github.com/rasticrookie/portfolio"
)

// setup points the application at a fresh file store in demo mode, and
// captures the command output.
func setup(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	cfg := filepath.Join(dir, "tradedash.yaml")
	content := "log_level: error\nstore:\n  kind: file\n  dir: " + filepath.Join(dir, "data") + "\nmarket:\n  demo: true\n"
	if err := os.WriteFile(cfg, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	oldConfig, oldRaw, oldStore := *configFile, *raw, *storeKind
	oldStdout, oldStderr := stdout, stderr
	*configFile, *raw, *storeKind = cfg, true, ""
	out, errOut = new(bytes.Buffer), new(bytes.Buffer)
	stdout, stderr = out, errOut
	t.Cleanup(func() {
		*configFile, *raw, *storeKind = oldConfig, oldRaw, oldStore
		stdout, stderr = oldStdout, oldStderr
	})
	return out, errOut
}

func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("cannot parse %v: %v", args, err)
	}
	return c.Execute(context.Background(), f)
}

// storedTrades reads the ledger back from the configured store.
func storedTrades(t *testing.T) []portfolio.Trade {
	t.Helper()
	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	return a.ledger(ctx).Trades()
}

func TestTradeCmd(t *testing.T) {
	out, _ := setup(t)

	if got := run(t, &tradeCmd{side: portfolio.Buy}, "aapl", "10", "150"); got != subcommands.ExitSuccess {
		t.Fatalf("buy exit status = %v, want success", got)
	}
	if got := run(t, &tradeCmd{side: portfolio.Sell}, "AAPL", "4", "155.5"); got != subcommands.ExitSuccess {
		t.Fatalf("sell exit status = %v, want success", got)
	}
	if !strings.HasPrefix(out.String(), "Bought 10 AAPL at $150.00 (") {
		t.Errorf("buy output = %q", out.String())
	}
	if !strings.Contains(out.String(), "Sold 4 AAPL at $155.50 (") {
		t.Errorf("sell output = %q", out.String())
	}

	trades := storedTrades(t)
	if len(trades) != 2 || trades[0].Side != portfolio.Buy || trades[1].Side != portfolio.Sell {
		t.Errorf("stored trades = %v", trades)
	}
}

func TestTradeCmd_Invalid(t *testing.T) {
	testCases := []struct {
		name      string
		args      []string
		wantError string
	}{
		{name: "missing price", args: []string{"AAPL", "10"}, wantError: "exactly 3 arguments"},
		{name: "zero quantity", args: []string{"AAPL", "0", "10"}, wantError: "invalid quantity"},
		{name: "not a number", args: []string{"AAPL", "ten", "10"}, wantError: "not a number"},
		{name: "negative price", args: []string{"AAPL", "1", "-10"}, wantError: "invalid price"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, errOut := setup(t)
			if got := run(t, &tradeCmd{side: portfolio.Buy}, tc.args...); got != subcommands.ExitUsageError {
				t.Errorf("exit status = %v, want usage error", got)
			}
			if !strings.Contains(errOut.String(), tc.wantError) {
				t.Errorf("stderr = %q, want it to contain %q", errOut.String(), tc.wantError)
			}
			if trades := storedTrades(t); len(trades) != 0 {
				t.Errorf("stored trades = %v, want none", trades)
			}
		})
	}
}

func TestRmCmd(t *testing.T) {
	out, errOut := setup(t)
	run(t, &tradeCmd{side: portfolio.Buy}, "X", "1", "1")
	run(t, &tradeCmd{side: portfolio.Buy}, "Y", "1", "1")
	id := storedTrades(t)[0].ID
	out.Reset()

	if got := run(t, &rmCmd{}, id, "unknown"); got != subcommands.ExitSuccess {
		t.Fatalf("rm exit status = %v, want success", got)
	}
	if want := "Deleted trade " + id + "\n"; out.String() != want {
		t.Errorf("rm output = %q, want %q", out.String(), want)
	}
	if !strings.Contains(errOut.String(), `no trade with id "unknown"`) {
		t.Errorf("rm stderr = %q", errOut.String())
	}
	if trades := storedTrades(t); len(trades) != 1 || trades[0].Symbol != "Y" {
		t.Errorf("stored trades = %v, want only Y", trades)
	}

	if got := run(t, &rmCmd{}); got != subcommands.ExitUsageError {
		t.Errorf("rm without ids exit status = %v, want usage error", got)
	}
}

func TestTradesCmd_Filter(t *testing.T) {
	trades := []portfolio.Trade{
		{ID: "1", Symbol: "A"},
		{ID: "2", Symbol: "B"},
		{ID: "3", Symbol: "A"},
		{ID: "4", Symbol: "A"},
	}
	testCases := []struct {
		cmd  tradesCmd
		want []string
	}{
		{tradesCmd{}, []string{"1", "2", "3", "4"}},
		{tradesCmd{symbol: "a"}, []string{"1", "3", "4"}},
		{tradesCmd{head: 2}, []string{"1", "2"}},
		{tradesCmd{tail: 1}, []string{"4"}},
		{tradesCmd{symbol: "A", tail: 2}, []string{"3", "4"}},
		{tradesCmd{symbol: "C"}, nil},
	}
	for _, tc := range testCases {
		var got []string
		for _, tr := range tc.cmd.filter(trades) {
			got = append(got, tr.ID)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%+v.filter() = %v, want %v", tc.cmd, got, tc.want)
		}
	}
}

func TestTradesCmd(t *testing.T) {
	out, _ := setup(t)
	run(t, &tradeCmd{side: portfolio.Buy}, "MSFT", "2", "300")
	out.Reset()

	if got := run(t, &tradesCmd{}); got != subcommands.ExitSuccess {
		t.Fatalf("trades exit status = %v, want success", got)
	}
	if !strings.Contains(out.String(), "| buy | MSFT | 2 | $300.00 | $600.00 |") {
		t.Errorf("trades output = %q", out.String())
	}

	if got := run(t, &tradesCmd{}, "-head", "1", "-tail", "1"); got != subcommands.ExitUsageError {
		t.Errorf("trades -head -tail exit status = %v, want usage error", got)
	}
}

func TestPositionsCmd(t *testing.T) {
	out, _ := setup(t)
	run(t, &tradeCmd{side: portfolio.Buy}, "X", "10", "100")
	run(t, &tradeCmd{side: portfolio.Buy}, "X", "10", "200")
	run(t, &tradeCmd{side: portfolio.Sell}, "X", "15", "180")
	out.Reset()

	if got := run(t, &positionsCmd{}, "-json"); got != subcommands.ExitSuccess {
		t.Fatalf("positions exit status = %v, want success", got)
	}
	var report struct {
		TotalInvested   float64 `json:"totalInvested"`
		TotalRealizedPL float64 `json:"totalRealizedPL"`
		ActivePositions int     `json:"activePositions"`
		TotalTrades     int     `json:"totalTrades"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("positions -json output is not JSON: %v\n%s", err, out.String())
	}
	if report.TotalInvested != 750 || report.TotalRealizedPL != 450 || report.ActivePositions != 1 || report.TotalTrades != 3 {
		t.Errorf("positions report = %+v, want 750 invested, 450 realized, 1 active, 3 trades", report)
	}

	out.Reset()
	run(t, &positionsCmd{})
	if !strings.Contains(out.String(), "# Positions") || !strings.Contains(out.String(), "+$450.00") {
		t.Errorf("positions output = %q", out.String())
	}
}

func TestWatchCmd(t *testing.T) {
	out, errOut := setup(t)

	if got := run(t, &watchCmd{}, "add", "pltr", "AAPL"); got != subcommands.ExitSuccess {
		t.Fatalf("watch add exit status = %v, want success", got)
	}
	if !strings.HasSuffix(out.String(), "AMD\nPLTR\n") {
		t.Errorf("watch add output = %q, want it to end with the extras", out.String())
	}
	if !strings.Contains(errOut.String(), "AAPL is already watched") {
		t.Errorf("watch add stderr = %q", errOut.String())
	}

	out.Reset()
	run(t, &watchCmd{}, "rm", "PLTR")
	if strings.Contains(out.String(), "PLTR") {
		t.Errorf("watch rm output = %q, want PLTR removed", out.String())
	}

	if got := run(t, &watchCmd{}, "add"); got != subcommands.ExitUsageError {
		t.Errorf("watch add without symbol exit status = %v, want usage error", got)
	}
	if got := run(t, &watchCmd{}, "clear"); got != subcommands.ExitUsageError {
		t.Errorf("watch clear exit status = %v, want usage error", got)
	}
}

func TestMarketCmds_Demo(t *testing.T) {
	testCases := []struct {
		cmd  subcommands.Command
		args []string
		want []string
	}{
		{&quotesCmd{}, nil, []string{"# Watchlist", "Demo data", "AAPL", "AMD"}},
		{&quotesCmd{}, []string{"coin", " "}, []string{"# Quotes", "COIN"}},
		{&futuresCmd{}, nil, []string{"# Futures", "Demo data", "ES"}},
		{&forexCmd{}, nil, []string{"# Forex", "Demo data", "EUR/USD", "AUD/USD"}},
		{&cryptoCmd{}, nil, []string{"# Crypto", "Demo data", "BTC", "Cardano"}},
		{&newsCmd{}, nil, []string{"Demo data"}},
	}
	for _, tc := range testCases {
		t.Run(tc.cmd.Name(), func(t *testing.T) {
			out, _ := setup(t)
			if got := run(t, tc.cmd, tc.args...); got != subcommands.ExitSuccess {
				t.Fatalf("exit status = %v, want success", got)
			}
			for _, want := range tc.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output does not contain %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestOpenApp_UnknownStore(t *testing.T) {
	setup(t)
	*storeKind = "s3"
	if _, err := openApp(context.Background()); err == nil {
		t.Errorf("openApp() succeeded with an unknown store kind")
	}
}
