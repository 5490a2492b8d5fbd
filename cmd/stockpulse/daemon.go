package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"
)

type daemonCmd struct {
	runOnStart bool
}

func (*daemonCmd) Name() string     { return "daemon" }
func (*daemonCmd) Synopsis() string { return "refresh on a cron schedule and answer Telegram commands" }
func (*daemonCmd) Usage() string {
	return `stockpulse daemon [-run-on-start]

  Runs refresh cycles on schedule.refresh_cron until interrupted. When Telegram
  is configured it also answers /summary, /symbol, /refresh and /history.
`
}

func (c *daemonCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runOnStart, "run-on-start", false, "Run one cycle immediately after start.")
}

func (c *daemonCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return subcommands.ExitUsageError
	}

	ctx, cancel := signalContext(ctx)
	defer cancel()

	log.Println("[INFO] StockPulse daemon starting...")
	a, err := newApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Printf("[FATAL] register cron task: %v", err)
		return subcommands.ExitFailure
	}
	a.sched.Start()
	defer a.sched.Stop()
	log.Printf("[INFO] refresh scheduled: %s", cfg.Schedule.RefreshCron)

	if a.notifier.Enabled() {
		go a.notifier.StartPolling(ctx, a.sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if c.runOnStart || cfg.Schedule.RunOnStart {
		log.Println("[INFO] run on start enabled, executing refresh now")
		go func() {
			if _, err := a.sched.Refresh(ctx); err != nil {
				log.Printf("[ERROR] refresh: %v", err)
			}
		}()
	}

	log.Println("[INFO] StockPulse is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	return subcommands.ExitSuccess
}
