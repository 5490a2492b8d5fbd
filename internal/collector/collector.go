package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

// Collector walks the configured symbols one at a time and builds a profile for each.
type Collector struct {
	Fetcher     Fetcher
	Symbols     []string
	HistoryDays int
	// Pause is waited between symbols; zero disables it.
	Pause      time.Duration
	Indicators calculator.Options

	now func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbols []string, historyDays int, pause time.Duration) *Collector {
	return &Collector{
		Fetcher:     fetcher,
		Symbols:     symbols,
		HistoryDays: historyDays,
		Pause:       pause,
		now:         time.Now,
	}
}

// Collect processes every symbol in order. A failing symbol yields a result with
// Err set and never stops the loop. Cancelling ctx returns what was gathered so far.
func (c *Collector) Collect(ctx context.Context) []model.SymbolResult {
	results := make([]model.SymbolResult, 0, len(c.Symbols))
	for i, sym := range c.Symbols {
		if i > 0 && !c.wait(ctx) {
			log.Printf("[WARN] collection cancelled after %d of %d symbols", i, len(c.Symbols))
			return results
		}
		if ctx.Err() != nil {
			return results
		}

		p, err := c.CollectSymbol(ctx, sym)
		if err != nil {
			log.Printf("[WARN] skip %s: %v", sym, err)
			results = append(results, model.SymbolResult{Symbol: sym, Err: err})
			continue
		}
		log.Printf("[INFO] %s: price=%.2f change=%.2f%% indicators=%d",
			sym, p.CurrentPrice, p.ChangePercent, len(p.Indicators))
		results = append(results, model.SymbolResult{Symbol: sym, Profile: p})
	}
	return results
}

// CollectSymbol fetches and builds the profile of one symbol. Only a bars
// failure drops the symbol; without info the profile is derived from the bars.
func (c *Collector) CollectSymbol(ctx context.Context, symbol string) (*model.Profile, error) {
	now := c.clock()
	bars, err := c.Fetcher.FetchBars(ctx, symbol, now.AddDate(0, 0, -c.HistoryDays), now)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	info, err := c.Fetcher.FetchInfo(ctx, symbol)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("fetch info: %w", err)
		}
		log.Printf("[WARN] %s: info unavailable, using bar data: %v", symbol, err)
		info = nil
	}
	p, err := BuildProfile(symbol, info, bars, BuildOptions{Indicators: c.Indicators, Now: now})
	if err != nil {
		return nil, fmt.Errorf("build profile: %w", err)
	}
	return p, nil
}

func (c *Collector) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// wait sleeps for Pause and reports false if ctx ended first.
func (c *Collector) wait(ctx context.Context) bool {
	if c.Pause <= 0 {
		return true
	}
	t := time.NewTimer(c.Pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
