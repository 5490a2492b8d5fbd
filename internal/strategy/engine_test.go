package strategy

import (
	"strings"
	"testing"
	"time"

	"StockPulse/internal/model"
)

func flatBars(n int, price float64) []model.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{
			Date:  start.AddDate(0, 0, i),
			Open:  price,
			High:  price,
			Low:   price,
			Close: price,
		}
	}
	return bars
}

func TestEvaluate_EmptySet(t *testing.T) {
	sig := Evaluate(100, model.IndicatorSet{}, nil)
	if sig.RSI != model.ZoneUnknown || sig.MACD != model.ZoneUnknown ||
		sig.Trend != model.ZoneUnknown || sig.Volume != model.ZoneUnknown {
		t.Errorf("expected all zones UNKNOWN, got %+v", sig)
	}
	if sig.Score != 0 || sig.AboveSMA20 || sig.GoldenCross {
		t.Errorf("expected zero signals, got %+v", sig)
	}
}

func TestEvaluate_BullishAlignment(t *testing.T) {
	bars := flatBars(60, 100)
	bars[len(bars)-1].High = 110
	bars[len(bars)-1].Close = 110
	ind := model.IndicatorSet{
		model.IndSMA20:         105,
		model.IndSMA50:         100,
		model.IndMACD:          1.2,
		model.IndMACDHistogram: 0.3,
		model.IndRSI:           75,
		model.IndVolumeRatio:   2.0,
		model.IndMomentum:      6,
	}
	sig := Evaluate(110, ind, bars)
	if sig.RSI != model.ZoneOverbought {
		t.Errorf("RSI zone = %s, want OVERBOUGHT", sig.RSI)
	}
	if sig.MACD != model.ZoneBullish {
		t.Errorf("MACD zone = %s, want BULLISH", sig.MACD)
	}
	if sig.Trend != model.ZoneBullish {
		t.Errorf("trend = %s, want BULLISH", sig.Trend)
	}
	if sig.Volume != model.ZoneHigh {
		t.Errorf("volume = %s, want HIGH", sig.Volume)
	}
	if !sig.AboveSMA20 || !sig.AboveSMA50 || !sig.GoldenCross {
		t.Errorf("expected price above both averages with golden cross, got %+v", sig)
	}
	// rsi 1.0*0.20 + macd 1.0*0.25 + trend 1.5*0.25 + momentum 1.0*0.15 + position 1.0*0.15
	want := 0.20 + 0.25 + 0.375 + 0.15 + 0.15
	if diff := sig.Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score = %.4f, want %.4f", sig.Score, want)
	}
}

func TestEvaluate_BearishAlignment(t *testing.T) {
	bars := flatBars(60, 100)
	bars[len(bars)-1].Low = 90
	bars[len(bars)-1].Close = 90
	ind := model.IndicatorSet{
		model.IndSMA20:         95,
		model.IndSMA50:         100,
		model.IndMACD:          -1,
		model.IndMACDHistogram: -0.2,
		model.IndRSI:           25,
		model.IndVolumeRatio:   0.3,
		model.IndMomentum:      -6,
	}
	sig := Evaluate(90, ind, bars)
	if sig.RSI != model.ZoneOversold {
		t.Errorf("RSI zone = %s, want OVERSOLD", sig.RSI)
	}
	if sig.MACD != model.ZoneBearish || sig.Trend != model.ZoneBearish {
		t.Errorf("expected bearish MACD and trend, got %+v", sig)
	}
	if sig.Volume != model.ZoneLow {
		t.Errorf("volume = %s, want LOW", sig.Volume)
	}
	if sig.GoldenCross {
		t.Error("SMA20 below SMA50 is not a golden cross")
	}
	if sig.Score >= -1 {
		t.Errorf("expected strongly negative score, got %.3f", sig.Score)
	}
}

func TestEvaluate_WithoutSMA50(t *testing.T) {
	ind := model.IndicatorSet{
		model.IndSMA20:       100,
		model.IndMACD:        0,
		model.IndRSI:         50,
		model.IndVolumeRatio: 1,
	}
	sig := Evaluate(101, ind, flatBars(25, 100))
	if sig.Trend != model.ZoneBullish {
		t.Errorf("trend = %s, want BULLISH from price over SMA20", sig.Trend)
	}
	if sig.AboveSMA50 || sig.GoldenCross {
		t.Error("no SMA50 means no SMA50 signals")
	}
	if sig.MACD != model.ZoneNeutral || sig.RSI != model.ZoneNeutral || sig.Volume != model.ZoneNeutral {
		t.Errorf("expected neutral readings, got %+v", sig)
	}
}

func TestScoreRSI_Bands(t *testing.T) {
	tests := []struct {
		rsi  float64
		raw  float64
		zone model.Zone
	}{
		{85, 1.0, model.ZoneOverbought},
		{70, 0.5, model.ZoneNeutral},
		{55, 0.5, model.ZoneNeutral},
		{50, 0, model.ZoneNeutral},
		{40, -0.5, model.ZoneNeutral},
		{30, -0.5, model.ZoneNeutral},
		{29.9, -1.0, model.ZoneOversold},
	}
	for _, tt := range tests {
		f := scoreRSI(model.IndicatorSet{model.IndRSI: tt.rsi})
		if f.raw != tt.raw || f.zone != tt.zone {
			t.Errorf("rsi %.1f: got (%.1f, %s), want (%.1f, %s)", tt.rsi, f.raw, f.zone, tt.raw, tt.zone)
		}
	}
}

func profile(sym string, changePct float64, volume int64) *model.Profile {
	return &model.Profile{Symbol: sym, Name: sym + " Inc", ChangePercent: changePct, Volume: volume, CurrentPrice: 10}
}

func TestBreakdown_SkipsProfilesWithoutIndicators(t *testing.T) {
	a := profile("A", 1, 0)
	a.Indicators = model.IndicatorSet{model.IndRSI: 80}
	a.Signals = model.TechnicalSignals{RSI: model.ZoneOverbought, MACD: model.ZoneBullish, Volume: model.ZoneHigh, AboveSMA20: true}
	b := profile("B", 1, 0)
	b.Indicators = model.IndicatorSet{model.IndRSI: 20}
	b.Signals = model.TechnicalSignals{RSI: model.ZoneOversold, MACD: model.ZoneBearish, Volume: model.ZoneLow}
	c := profile("C", 1, 0)
	c.Signals = model.TechnicalSignals{RSI: model.ZoneUnknown}

	got := Breakdown([]*model.Profile{a, b, c})
	if got.RSIOverbought != 1 || got.RSIOversold != 1 || got.RSINeutral != 0 {
		t.Errorf("unexpected RSI counts: %+v", got)
	}
	if got.MACDBullish != 1 || got.MACDBearish != 1 {
		t.Errorf("unexpected MACD counts: %+v", got)
	}
	if got.HighVolume != 1 || got.LowVolume != 1 || got.AboveSMA20 != 1 {
		t.Errorf("unexpected volume/SMA counts: %+v", got)
	}
}

func TestInsights_Empty(t *testing.T) {
	in := Insights(nil)
	if in.Sentiment != "No data available" || in.TopPick != "No data available" {
		t.Errorf("unexpected insights: %+v", in)
	}
	if in.Risks == nil || len(in.Risks) != 0 {
		t.Errorf("expected empty non-nil risks, got %v", in.Risks)
	}
}

func TestInsights_Sentiment(t *testing.T) {
	tests := []struct {
		name    string
		changes []float64
		prefix  string
	}{
		{"bullish", []float64{2, 3, 1.5, -0.5}, "Bullish"},
		{"bearish", []float64{-2, -3, -1.5, 0.5}, "Bearish"},
		{"neutral", []float64{0.2, -0.1, 0.1}, "Neutral"},
		{"mixed", []float64{3, -1, 0.5}, "Mixed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ps []*model.Profile
			for i, c := range tt.changes {
				ps = append(ps, profile(string(rune('A'+i)), c, 5_000_000))
			}
			got := Insights(ps).Sentiment
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("sentiment = %q, want prefix %q", got, tt.prefix)
			}
		})
	}
}

func TestInsights_TopPickAndRisks(t *testing.T) {
	a := profile("AAA", 2, 9_000_000)
	a.MarketCap = 5e9
	a.PERatio = 20
	b := profile("BBB", -12, 100)
	b.PERatio = 80
	c := profile("CCC", 0.5, 200)

	in := Insights([]*model.Profile{a, b, c})
	if !strings.HasPrefix(in.TopPick, "AAA (AAA Inc) - Strong momentum") {
		t.Errorf("top pick = %q", in.TopPick)
	}
	want := map[string]bool{
		"1 stocks down more than 10%":            true,
		"Many stocks showing low trading volume": true,
		"1 stocks with P/E ratios above 50":      true,
	}
	for _, r := range in.Risks {
		if !want[r] {
			t.Errorf("unexpected risk %q", r)
		}
		delete(want, r)
	}
	if len(want) != 0 {
		t.Errorf("missing risks: %v", want)
	}
}
