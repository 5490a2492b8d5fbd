package calculator

import (
	"math"
	"testing"
	"time"

	"StockPulse/internal/model"
)

const eps = 1e-9

func makeBars(closes []float64) []model.Bar {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ascending(from float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)
	}
	return out
}

func TestCompute_ShortSeriesIsEmpty(t *testing.T) {
	for n := 0; n < MinBars; n++ {
		set := Compute(makeBars(ascending(100, n)), Options{})
		if !set.Empty() {
			t.Errorf("len %d: expected empty indicator set, got %v", n, set)
		}
	}
}

func TestCompute_AscendingScenario(t *testing.T) {
	set := Compute(makeBars(ascending(100, 25)), Options{})

	sma, ok := set.Get(model.IndSMA20)
	if !ok || sma != 114.5 {
		t.Errorf("sma_20: expected 114.5, got %v (ok=%v)", sma, ok)
	}
	mom := set[model.IndMomentum]
	want := (124.0 - 119.0) / 119.0 * 100
	if math.Abs(mom-want) > eps {
		t.Errorf("momentum: expected %.6f, got %.6f", want, mom)
	}
	if math.Abs(mom-4.2017) > 1e-4 {
		t.Errorf("momentum: expected ~4.2017, got %.6f", mom)
	}
	if _, ok := set.Get(model.IndSMA50); ok {
		t.Error("sma_50 must be unavailable with 25 bars")
	}
	if rsi := set[model.IndRSI]; rsi != 100 {
		t.Errorf("rsi: expected 100 for strictly rising closes, got %v", rsi)
	}
}

func TestCompute_SMA50NeedsFiftyBars(t *testing.T) {
	set := Compute(makeBars(ascending(1, 50)), Options{})
	v, ok := set.Get(model.IndSMA50)
	if !ok {
		t.Fatal("sma_50 should be available with 50 bars")
	}
	if v != 25.5 {
		t.Errorf("sma_50: expected 25.5, got %v", v)
	}
}

func TestCompute_ConstantSeries(t *testing.T) {
	set := Compute(makeBars(constant(42, 20)), Options{})

	if set[model.IndSMA20] != 42 {
		t.Errorf("sma_20: expected exactly 42, got %v", set[model.IndSMA20])
	}
	for _, name := range []string{model.IndEMA12, model.IndEMA26} {
		if math.Abs(set[name]-42) > eps {
			t.Errorf("%s: expected 42, got %v", name, set[name])
		}
	}
	if set[model.IndBBUpper] != 42 || set[model.IndBBLower] != 42 || set[model.IndBBMiddle] != 42 {
		t.Errorf("bollinger should collapse onto the mean, got %v/%v/%v",
			set[model.IndBBUpper], set[model.IndBBMiddle], set[model.IndBBLower])
	}
	if set[model.IndRSI] != 50 {
		t.Errorf("rsi: expected 50 for a flat series, got %v", set[model.IndRSI])
	}
	if math.Abs(set[model.IndMACD]) > eps {
		t.Errorf("macd: expected 0, got %v", set[model.IndMACD])
	}
	if set[model.IndVolumeRatio] != 1 {
		t.Errorf("volume_ratio: expected 1, got %v", set[model.IndVolumeRatio])
	}
	if set[model.IndMomentum] != 0 {
		t.Errorf("momentum: expected 0, got %v", set[model.IndMomentum])
	}
}

func TestCompute_LegacyMACDSignal(t *testing.T) {
	bars := makeBars(constant(10, 30))

	fixed := Compute(bars, Options{})
	if math.Abs(fixed[model.IndMACDSignal]) > eps {
		t.Errorf("signal over MACD line: expected 0, got %v", fixed[model.IndMACDSignal])
	}

	legacy := Compute(bars, Options{LegacyMACDSignal: true})
	if math.Abs(legacy[model.IndMACDSignal]-10) > eps {
		t.Errorf("legacy signal over closes: expected 10, got %v", legacy[model.IndMACDSignal])
	}
	if math.Abs(legacy[model.IndMACDHistogram]+10) > eps {
		t.Errorf("legacy histogram: expected -10, got %v", legacy[model.IndMACDHistogram])
	}
}

func TestCompute_MACDSignalOverLine(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3) + 0.5*float64(i)
	}

	ema := func(values []float64, period int) []float64 {
		k := 2.0 / float64(period+1)
		out := []float64{values[0]}
		for _, v := range values[1:] {
			out = append(out, k*v+(1-k)*out[len(out)-1])
		}
		return out
	}
	fast, slow := ema(closes, 12), ema(closes, 26)
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal := ema(line, 9)
	wantLine := line[len(line)-1]
	wantSignal := signal[len(signal)-1]
	overCloses := ema(closes, 9)[len(closes)-1]

	set := Compute(makeBars(closes), Options{})
	if math.Abs(set[model.IndMACD]-wantLine) > eps {
		t.Errorf("macd: expected %v, got %v", wantLine, set[model.IndMACD])
	}
	if math.Abs(set[model.IndMACDSignal]-wantSignal) > eps {
		t.Errorf("macd_signal: expected %v, got %v", wantSignal, set[model.IndMACDSignal])
	}
	if math.Abs(set[model.IndMACDHistogram]-(wantLine-wantSignal)) > eps {
		t.Errorf("macd_histogram: expected %v, got %v", wantLine-wantSignal, set[model.IndMACDHistogram])
	}
	if math.Abs(wantSignal-wantLine) < 1e-6 {
		t.Fatal("series too smooth to tell the signal from the line")
	}

	legacy := Compute(makeBars(closes), Options{LegacyMACDSignal: true})
	if math.Abs(legacy[model.IndMACDSignal]-overCloses) > eps {
		t.Errorf("legacy macd_signal: expected %v, got %v", overCloses, legacy[model.IndMACDSignal])
	}
	if math.Abs(legacy[model.IndMACD]-wantLine) > eps {
		t.Errorf("legacy mode must not change the line: %v", legacy[model.IndMACD])
	}
}

func TestCompute_ZeroVolumeRatioDefaults(t *testing.T) {
	bars := makeBars(ascending(10, 20))
	for i := range bars {
		bars[i].Volume = 0
	}
	set := Compute(bars, Options{})
	if set[model.IndVolumeRatio] != 1.0 {
		t.Errorf("volume_ratio: expected 1.0 when volume SMA is zero, got %v", set[model.IndVolumeRatio])
	}
	if set[model.IndVolumeSMA] != 0 {
		t.Errorf("volume_sma: expected 0, got %v", set[model.IndVolumeSMA])
	}
}

func TestCompute_VolumeRatio(t *testing.T) {
	bars := makeBars(ascending(10, 20))
	bars[19].Volume = 20000
	// 19*1000 + 20000 = 39000 / 20 = 1950
	set := Compute(bars, Options{})
	want := 20000.0 / 1950.0
	if math.Abs(set[model.IndVolumeRatio]-want) > eps {
		t.Errorf("volume_ratio: expected %v, got %v", want, set[model.IndVolumeRatio])
	}
}
