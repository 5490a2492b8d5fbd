package calculator

import (
	"StockPulse/internal/model"
)

// MinBars is the series length below which no indicator is produced at all.
const MinBars = 20

// Options tunes indicator computation.
type Options struct {
	// LegacyMACDSignal computes the MACD signal line over closes instead of over
	// the MACD line.
	LegacyMACDSignal bool
}

// Compute derives the indicator set for the last bar of a series ordered by date.
// A series shorter than MinBars yields an empty set. Numeric edge cases are
// resolved in place and never surface as errors.
func Compute(bars []model.Bar, opts Options) model.IndicatorSet {
	set := model.IndicatorSet{}
	if len(bars) < MinBars {
		return set
	}
	closes := model.Closes(bars)
	volumes := model.Volumes(bars)

	if v, err := CalculateSMA(closes, 20); err == nil {
		set[model.IndSMA20] = v
	}
	if v, err := CalculateSMA(closes, 50); err == nil {
		set[model.IndSMA50] = v
	}
	if v, err := CalculateEMA(closes, 12); err == nil {
		set[model.IndEMA12] = v
	}
	if v, err := CalculateEMA(closes, 26); err == nil {
		set[model.IndEMA26] = v
	}
	if m, err := CalculateMACD(closes, 12, 26, 9, opts.LegacyMACDSignal); err == nil {
		set[model.IndMACD] = m.Line
		set[model.IndMACDSignal] = m.Signal
		set[model.IndMACDHistogram] = m.Histogram
	}
	if v, err := CalculateRSI(closes, 14); err == nil {
		set[model.IndRSI] = v
	}
	if b, err := CalculateBollinger(closes, 20, 2); err == nil {
		set[model.IndBBUpper] = b.Upper
		set[model.IndBBMiddle] = b.Middle
		set[model.IndBBLower] = b.Lower
	}
	if v, err := CalculateSMA(volumes, 20); err == nil {
		set[model.IndVolumeSMA] = v
	}
	set[model.IndVolumeRatio] = CalculateVolumeRatio(volumes, 20)
	set[model.IndMomentum] = CalculateMomentum(closes, 5)

	return set
}
