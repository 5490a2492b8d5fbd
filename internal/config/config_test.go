package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"}
	if !reflect.DeepEqual(cfg.DataSource.Symbols, want) {
		t.Errorf("symbols = %v, want %v", cfg.DataSource.Symbols, want)
	}
	if cfg.DataSource.Provider != ProviderYahoo {
		t.Errorf("provider = %q, want yahoo", cfg.DataSource.Provider)
	}
	if cfg.Output.Dir != "data" {
		t.Errorf("output dir = %q, want data", cfg.Output.Dir)
	}
	if cfg.Pause() != time.Second {
		t.Errorf("pause = %v, want 1s", cfg.Pause())
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Notify.AlertThreshold != DefaultAlertThreshold {
		t.Errorf("alert threshold = %v, want %v", cfg.Notify.AlertThreshold, DefaultAlertThreshold)
	}
	if cfg.HistoryDB() != "data/stockpulse.db" {
		t.Errorf("history db = %q", cfg.HistoryDB())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: mock
  symbols: [" nvda", "amd", "NVDA"]
  request_pause: 0s
indicators:
  legacy_macd_signal: true
output:
  dir: out
`)
	t.Setenv("DATA_DIR", "env-out")
	t.Setenv("HISTORY_DAYS", "120")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.DataSource.Symbols, []string{"NVDA", "AMD"}) {
		t.Errorf("symbols = %v", cfg.DataSource.Symbols)
	}
	if cfg.Output.Dir != "env-out" {
		t.Errorf("env should override output dir, got %q", cfg.Output.Dir)
	}
	if cfg.DataSource.HistoryDays != 120 {
		t.Errorf("history days = %d, want 120", cfg.DataSource.HistoryDays)
	}
	if cfg.Pause() != 0 {
		t.Errorf("pause = %v, want 0", cfg.Pause())
	}
	if !cfg.Indicators.LegacyMACDSignal {
		t.Error("expected legacy MACD signal from file")
	}
}

func TestLoad_SymbolsFromEnv(t *testing.T) {
	t.Setenv("SYMBOLS", "ibm, orcl")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.DataSource.Symbols, []string{"IBM", "ORCL"}) {
		t.Errorf("symbols = %v", cfg.DataSource.Symbols)
	}
}

func TestLoad_ZeroAlertThresholdKept(t *testing.T) {
	path := writeConfig(t, `
notify:
  alert_threshold: 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Notify.AlertThreshold != 0 {
		t.Errorf("alert threshold = %v, want 0 (alerts off)", cfg.Notify.AlertThreshold)
	}

	t.Setenv("ALERT_THRESHOLD", "2.5")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Notify.AlertThreshold != 2.5 {
		t.Errorf("env alert threshold = %v, want 2.5", cfg.Notify.AlertThreshold)
	}
}

func TestHistoryDB(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  string
		want string
	}{
		{"default", "", "", "data/stockpulse.db"},
		{"custom path", "database:\n  sqlite_path: runs.db\n", "", "runs.db"},
		{"off in file", "database:\n  sqlite_path: \"off\"\n", "", ""},
		{"off from env", "", "OFF", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("SQLITE_PATH", tt.env)
			}
			cfg, err := Load(writeConfig(t, tt.file))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got := cfg.HistoryDB(); got != tt.want {
				t.Errorf("HistoryDB() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "data_source: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, true},
		{"alpaca without keys", func(c *Config) { c.DataSource.Provider = ProviderAlpaca }, true},
		{"alpaca with keys", func(c *Config) {
			c.DataSource.Provider = ProviderAlpaca
			c.Alpaca.APIKey, c.Alpaca.SecretKey = "k", "s"
		}, false},
		{"http without base url", func(c *Config) { c.DataSource.Provider = ProviderHTTP }, true},
		{"bad pause", func(c *Config) { c.DataSource.RequestPause = "soon" }, true},
		{"negative pause", func(c *Config) { c.DataSource.RequestPause = "-1s" }, true},
		{"bad bars format", func(c *Config) { c.Output.BarsFormat = "xml" }, true},
		{"parquet bars", func(c *Config) { c.Output.BarsFormat = "parquet" }, false},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "t" }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"no symbols", func(c *Config) { c.DataSource.Symbols = nil }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
