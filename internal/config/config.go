package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported data providers.
const (
	ProviderYahoo  = "yahoo"
	ProviderAlpaca = "alpaca"
	ProviderHTTP   = "http"
	ProviderMock   = "mock"
)

// DatabaseOff as database.sqlite_path disables run history.
const DatabaseOff = "off"

// DefaultAlertThreshold applies when notify.alert_threshold is absent.
const DefaultAlertThreshold = 5.0

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider     string   `yaml:"provider"`
		Symbols      []string `yaml:"symbols"`
		BaseURL      string   `yaml:"base_url"`
		APIKey       string   `yaml:"api_key"`
		HistoryDays  int      `yaml:"history_days"`
		RequestPause string   `yaml:"request_pause"`
	} `yaml:"data_source"`
	Alpaca struct {
		APIKey    string `yaml:"api_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"alpaca"`
	Indicators struct {
		LegacyMACDSignal bool `yaml:"legacy_macd_signal"`
	} `yaml:"indicators"`
	Output struct {
		Dir        string `yaml:"dir"`
		BarsFormat string `yaml:"bars_format"`
	} `yaml:"output"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		RunOnStart  bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Notify struct {
		AlertThreshold float64 `yaml:"alert_threshold"`
	} `yaml:"notify"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		Port      int    `yaml:"port"`
		Root      string `yaml:"root"`
		NoBrowser bool   `yaml:"no_browser"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults and the environment fill everything in.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// zero is a valid threshold, so the default is set before decoding
	cfg.Notify.AlertThreshold = DefaultAlertThreshold

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	cfg.DataSource.Symbols = normalizeSymbols(cfg.DataSource.Symbols)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.DataSource.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HISTORY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataSource.HistoryDays = n
		}
	}
	if v := os.Getenv("REQUEST_PAUSE"); v != "" {
		cfg.DataSource.RequestPause = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.Alpaca.SecretKey = v
	}
	if v := os.Getenv("LEGACY_MACD_SIGNAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Indicators.LegacyMACDSignal = b
		}
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("BARS_FORMAT"); v != "" {
		cfg.Output.BarsFormat = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		cfg.Schedule.RunOnStart = v == "true"
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("ALERT_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Notify.AlertThreshold = f
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderYahoo
	}
	if len(cfg.DataSource.Symbols) == 0 {
		cfg.DataSource.Symbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"}
	}
	if cfg.DataSource.HistoryDays == 0 {
		cfg.DataSource.HistoryDays = 365
	}
	if cfg.DataSource.RequestPause == "" {
		cfg.DataSource.RequestPause = "1s"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 30 16 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockpulse.db"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.Root == "" {
		cfg.Server.Root = "."
	}
}

// normalizeSymbols trims, upper-cases and de-duplicates while keeping order.
func normalizeSymbols(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// HistoryDB returns the SQLite path for run history, or "" when disabled.
func (c *Config) HistoryDB() string {
	if strings.EqualFold(strings.TrimSpace(c.Database.SQLitePath), DatabaseOff) {
		return ""
	}
	return c.Database.SQLitePath
}

// Pause returns the parsed courtesy pause between symbols.
func (c *Config) Pause() time.Duration {
	d, err := time.ParseDuration(c.DataSource.RequestPause)
	if err != nil {
		return time.Second
	}
	return d
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderAlpaca:
		if c.Alpaca.APIKey == "" || c.Alpaca.SecretKey == "" {
			return fmt.Errorf("alpaca.api_key and alpaca.secret_key are required for provider %q", ProviderAlpaca)
		}
	case ProviderHTTP:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider %q", ProviderHTTP)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if len(c.DataSource.Symbols) == 0 {
		return fmt.Errorf("data_source.symbols must not be empty")
	}
	if c.DataSource.HistoryDays <= 0 {
		return fmt.Errorf("data_source.history_days must be positive")
	}
	if d, err := time.ParseDuration(c.DataSource.RequestPause); err != nil {
		return fmt.Errorf("data_source.request_pause: %w", err)
	} else if d < 0 {
		return fmt.Errorf("data_source.request_pause must not be negative")
	}
	switch c.Output.BarsFormat {
	case "", "json", "csv", "parquet":
	default:
		return fmt.Errorf("output.bars_format %q is not supported", c.Output.BarsFormat)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	if c.Notify.AlertThreshold < 0 {
		return fmt.Errorf("notify.alert_threshold must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}
