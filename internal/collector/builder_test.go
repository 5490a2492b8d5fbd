package collector

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockPulse/internal/model"
)

func seriesOf(closes ...float64) []model.Bar {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: int64(1000 * (i + 1)),
		}
	}
	return bars
}

func TestBuildProfile_EmptySeries(t *testing.T) {
	_, err := BuildProfile("AAPL", &model.SymbolInfo{}, nil, BuildOptions{})
	if !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
}

func TestBuildProfile_SingleBar(t *testing.T) {
	p, err := BuildProfile("AAPL", nil, seriesOf(150), BuildOptions{})
	if err != nil {
		t.Fatalf("BuildProfile failed: %v", err)
	}
	if p.ChangePercent != 0 || p.Change5dPercent != 0 || p.Change60dPercent != 0 || p.Change != 0 {
		t.Errorf("single bar must have zero changes, got %+v", p)
	}
	if p.CurrentPrice != 150 {
		t.Errorf("current price should fall back to last close, got %.2f", p.CurrentPrice)
	}
	if p.Name != "AAPL" {
		t.Errorf("name should fall back to symbol, got %q", p.Name)
	}
	if !p.Indicators.Empty() {
		t.Errorf("single bar must yield empty indicator set, got %v", p.Indicators)
	}
	if p.Signals.RSI != model.ZoneUnknown {
		t.Errorf("expected UNKNOWN RSI zone, got %s", p.Signals.RSI)
	}
	if len(p.HistoricalData) != 1 || p.HistoricalData[0].Date != "2024-03-01" {
		t.Errorf("unexpected historical data: %+v", p.HistoricalData)
	}
}

func TestBuildProfile_ChangesAndFallbacks(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	bars := seriesOf(closes...)
	info := &model.SymbolInfo{
		Name:             "Apple Inc.",
		Sector:           "Technology",
		MarketCap:        3e12,
		TrailingPE:       30,
		NextEarningsDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	p, err := BuildProfile("AAPL", info, bars, BuildOptions{Now: now})
	if err != nil {
		t.Fatalf("BuildProfile failed: %v", err)
	}
	if p.Change != 1 {
		t.Errorf("change = %.2f, want 1", p.Change)
	}
	if want := 1.0 / 123 * 100; math.Abs(p.ChangePercent-want) > 1e-9 {
		t.Errorf("change%% = %.6f, want %.6f", p.ChangePercent, want)
	}
	if want := 5.0 / 119 * 100; math.Abs(p.Change5dPercent-want) > 1e-9 {
		t.Errorf("5d change%% = %.6f, want %.6f", p.Change5dPercent, want)
	}
	if p.Change30dPercent != 0 {
		t.Errorf("30d change on 25 bars should be 0, got %.4f", p.Change30dPercent)
	}
	if p.CurrentPrice != 124 || p.PreviousClose != 123 {
		t.Errorf("price fallbacks wrong: current=%.2f prev=%.2f", p.CurrentPrice, p.PreviousClose)
	}
	if p.Volume != 25000 {
		t.Errorf("volume should fall back to last bar, got %d", p.Volume)
	}
	if p.FiftyTwoWeekHigh != 125 || p.FiftyTwoWeekLow != 99 {
		t.Errorf("52w range = %.0f/%.0f, want 125/99", p.FiftyTwoWeekHigh, p.FiftyTwoWeekLow)
	}
	if p.PERatio != 30 || p.Sector != "Technology" {
		t.Errorf("info fields not carried over: %+v", p)
	}
	if p.NextEarningsDate != "2024-05-02" || p.ExDividendDate != "" {
		t.Errorf("dates = %q / %q", p.NextEarningsDate, p.ExDividendDate)
	}
	if v, ok := p.Indicators.Get(model.IndSMA20); !ok || math.Abs(v-114.5) > 1e-9 {
		t.Errorf("sma_20 = %v (ok=%v), want 114.5", v, ok)
	}
	if !p.LastUpdated.Equal(now) {
		t.Errorf("last updated = %v, want %v", p.LastUpdated, now)
	}
	if len(p.Bars()) != 25 {
		t.Errorf("profile should carry its series, got %d bars", len(p.Bars()))
	}
}

func TestBuildProfile_InfoPriceWins(t *testing.T) {
	p, err := BuildProfile("MSFT", &model.SymbolInfo{CurrentPrice: 410, Volume: 7}, seriesOf(400, 405), BuildOptions{})
	if err != nil {
		t.Fatalf("BuildProfile failed: %v", err)
	}
	if p.CurrentPrice != 410 || p.Volume != 7 {
		t.Errorf("provider values should win: price=%.2f volume=%d", p.CurrentPrice, p.Volume)
	}
}
