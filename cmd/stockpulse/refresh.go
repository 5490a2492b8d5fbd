package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type refreshCmd struct {
	symbols  string
	dir      string
	provider string
	bars     string
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "run one refresh cycle and write the dashboard documents" }
func (*refreshCmd) Usage() string {
	return `stockpulse refresh [-symbols AAPL,MSFT] [-dir data] [-provider yahoo] [-bars csv]

  Fetches every configured symbol, computes indicators, writes stocks.json and
  summary.json, records the run and sends the digest when Telegram is set up.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbols, "symbols", "", "Comma separated symbols, overrides the config.")
	f.StringVar(&c.dir, "dir", "", "Output directory, overrides the config.")
	f.StringVar(&c.provider, "provider", "", "Data provider (yahoo, alpaca, http, mock), overrides the config.")
	f.StringVar(&c.bars, "bars", "", "Also export bar history (json, csv, parquet).")
}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.symbols != "" {
		cfg.DataSource.Symbols = nil
		for _, s := range strings.Split(c.symbols, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				cfg.DataSource.Symbols = append(cfg.DataSource.Symbols, s)
			}
		}
	}
	if c.dir != "" {
		cfg.Output.Dir = c.dir
	}
	if c.provider != "" {
		cfg.DataSource.Provider = c.provider
	}
	if c.bars != "" {
		cfg.Output.BarsFormat = c.bars
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return subcommands.ExitUsageError
	}

	ctx, cancel := signalContext(ctx)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	report, err := a.sched.Refresh(ctx)
	if err != nil {
		log.Printf("[ERROR] refresh: %v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("run %s: %d symbols written to %s, %d failed\n",
		report.RunID, len(report.Profiles), cfg.Output.Dir, len(report.Failed))
	return subcommands.ExitSuccess
}
