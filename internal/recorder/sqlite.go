package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockPulse/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the dashboard tooling read while a cycle writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id             TEXT NOT NULL UNIQUE,
			timestamp          INTEGER NOT NULL,
			duration_ms        INTEGER,
			total_stocks       INTEGER,
			gainers            INTEGER,
			losers             INTEGER,
			unchanged          INTEGER,
			total_market_cap   REAL,
			total_volume       INTEGER,
			avg_change_percent REAL,
			bullish            INTEGER,
			bearish            INTEGER,
			neutral            INTEGER,
			failed_count       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS symbol_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			price          REAL,
			change_percent REAL,
			volume         INTEGER,
			market_cap     REAL,
			sma_20         REAL,
			rsi            REAL,
			macd           REAL,
			trend          TEXT,
			score          REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snap_symbol_ts ON symbol_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS failed_symbols (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			reason    TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// indicatorArg maps an absent indicator to SQL NULL.
func indicatorArg(set model.IndicatorSet, name string) interface{} {
	if v, ok := set.Get(name); ok {
		return v
	}
	return nil
}

// RecordRun stores the run row, one snapshot per profile and the failures in one transaction.
func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := snap.StartedAt.Unix()
	s := snap.Summary

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs
		(run_id, timestamp, duration_ms, total_stocks, gainers, losers, unchanged,
		 total_market_cap, total_volume, avg_change_percent,
		 bullish, bearish, neutral, failed_count)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, ts, snap.Duration.Milliseconds(),
		s.TotalStocks, s.Gainers, s.Losers, s.Unchanged,
		s.TotalMarketCap, s.TotalVolume, s.AverageChangePercent,
		s.MarketSentiment.Bullish, s.MarketSentiment.Bearish, s.MarketSentiment.Neutral,
		len(s.FailedSymbols),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, p := range snap.Profiles {
		if _, err := tx.Exec(`INSERT INTO symbol_snapshots
			(run_id, timestamp, symbol, price, change_percent, volume, market_cap,
			 sma_20, rsi, macd, trend, score)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			snap.RunID, ts, p.Symbol, p.CurrentPrice, p.ChangePercent, p.Volume, p.MarketCap,
			indicatorArg(p.Indicators, model.IndSMA20),
			indicatorArg(p.Indicators, model.IndRSI),
			indicatorArg(p.Indicators, model.IndMACD),
			string(p.Signals.Trend), p.Signals.Score,
		); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", p.Symbol, err)
		}
	}

	for _, f := range s.FailedSymbols {
		if _, err := tx.Exec(`INSERT INTO failed_symbols (run_id, timestamp, symbol, reason) VALUES (?,?,?,?)`,
			snap.RunID, ts, f.Symbol, f.Reason,
		); err != nil {
			return fmt.Errorf("insert failure %s: %w", f.Symbol, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns up to limit runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT run_id, timestamp, total_stocks, gainers, losers,
		avg_change_percent, failed_count
		FROM runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var ts int64
		if err := rows.Scan(&rec.RunID, &ts, &rec.TotalStocks, &rec.Gainers, &rec.Losers,
			&rec.AverageChangePercent, &rec.FailedCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
