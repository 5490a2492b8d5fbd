package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"StockPulse/internal/server"
)

type serveCmd struct {
	port      int
	root      string
	noBrowser bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the dashboard directory over local HTTP" }
func (*serveCmd) Usage() string {
	return `stockpulse serve [-port 8000] [-root .] [-no-browser]

  Serves static files with caching disabled and opens the dashboard in the
  default browser.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.port, "port", 0, "Port to listen on, overrides the config.")
	f.StringVar(&c.root, "root", "", "Directory to serve, overrides the config.")
	f.BoolVar(&c.noBrowser, "no-browser", false, "Do not open a browser.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.port != 0 {
		cfg.Server.Port = c.port
	}
	if c.root != "" {
		cfg.Server.Root = c.root
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return subcommands.ExitUsageError
	}

	ctx, cancel := signalContext(ctx)
	defer cancel()

	srv := server.New(cfg.Server.Root, cfg.Server.Port)
	srv.OpenBrowser = !(c.noBrowser || cfg.Server.NoBrowser)
	if err := srv.Run(ctx); err != nil {
		log.Printf("[ERROR] server: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
