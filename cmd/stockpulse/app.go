package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/notifier"
	"StockPulse/internal/output"
	"StockPulse/internal/recorder"
	"StockPulse/internal/scheduler"
)

var (
	configPath = flag.String("config", defaultConfigPath(), "Path to the YAML config file")
	envFile    = flag.String("env", ".env", "Path to a .env file loaded before the config")
)

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

// loadConfig reads .env, the config file and environment overrides. Validation
// is left to the caller so command flags can be applied first.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", *envFile, err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case config.ProviderAlpaca:
		return collector.NewAlpacaFetcher(cfg.Alpaca.APIKey, cfg.Alpaca.SecretKey)
	case config.ProviderHTTP:
		return collector.NewHTTPFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.ProviderMock:
		return &collector.MockFetcher{Price: 100}
	default:
		return collector.NewYahooFetcher(cfg.Proxy)
	}
}

func newRecorder(cfg *config.Config) recorder.Recorder {
	path := cfg.HistoryDB()
	if path == "" {
		log.Println("[INFO] run history disabled")
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// app bundles the components shared by the refresh and daemon commands.
type app struct {
	cfg      *config.Config
	sched    *scheduler.Scheduler
	notifier *notifier.TelegramNotifier
	recorder recorder.Recorder
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	fetcher := newFetcher(cfg)
	log.Printf("[INFO] data source: %s, %d symbols", fetcher.Name(), len(cfg.DataSource.Symbols))

	col := collector.NewCollector(fetcher, cfg.DataSource.Symbols, cfg.DataSource.HistoryDays, cfg.Pause())
	col.Indicators.LegacyMACDSignal = cfg.Indicators.LegacyMACDSignal
	if cfg.Indicators.LegacyMACDSignal {
		log.Println("[INFO] MACD signal computed over closes (legacy mode)")
	}

	w, err := output.NewWriter(cfg.Output.Dir, cfg.Output.BarsFormat)
	if err != nil {
		return nil, err
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	tn.AlertThreshold = cfg.Notify.AlertThreshold
	if !tn.Enabled() {
		log.Println("[INFO] Telegram not configured, notifications disabled")
	}

	rec := newRecorder(cfg)
	sched := scheduler.NewScheduler(ctx, col, w, rec, tn)

	return &app{cfg: cfg, sched: sched, notifier: tn, recorder: rec}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Printf("[WARN] close recorder: %v", err)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
