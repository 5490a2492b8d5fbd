package calculator

import "StockPulse/internal/model"

// CalculateMomentum returns the percent change of the last close against the close
// lookback bars earlier. Returns 0 when the series is too short or the reference is 0.
func CalculateMomentum(closes []float64, lookback int) float64 {
	n := len(closes)
	if lookback <= 0 || n < lookback+1 {
		return 0
	}
	ref := closes[n-1-lookback]
	if ref == 0 {
		return 0
	}
	return (closes[n-1] - ref) / ref * 100
}

// CalculateVolumeRatio returns the last volume over its period SMA, or 1.0 when the
// SMA is zero or cannot be computed.
func CalculateVolumeRatio(volumes []float64, period int) float64 {
	sma, err := CalculateSMA(volumes, period)
	if err != nil || sma == 0 {
		return 1.0
	}
	return volumes[len(volumes)-1] / sma
}

// PercentChange compares the latest close to the close lookback bars earlier.
// When the series is shorter than the lookback the latest close is its own
// reference, which yields 0.
func PercentChange(bars []model.Bar, lookback int) float64 {
	n := len(bars)
	if n == 0 {
		return 0
	}
	latest := bars[n-1].Close
	ref := latest
	if lookback > 0 && n > lookback {
		ref = bars[n-1-lookback].Close
	}
	if ref == 0 {
		return 0
	}
	return (latest - ref) / ref * 100
}
