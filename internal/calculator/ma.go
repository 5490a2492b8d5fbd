package calculator

import (
	"errors"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// EMASeries returns the exponential moving average at every point of values,
// with alpha = 2/(period+1) and the first value seeded with values[0].
func EMASeries(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(values) == 0 {
		return nil, errors.New("not enough data for EMA calculation")
	}
	alpha := 2.0 / float64(period+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}

// CalculateEMA returns the exponential moving average as of the last value.
func CalculateEMA(values []float64, period int) (float64, error) {
	series, err := EMASeries(values, period)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// MACD holds the moving average convergence/divergence readings for the last bar.
type MACD struct {
	Line      float64
	Signal    float64
	Histogram float64
}

// CalculateMACD computes EMA(fast) - EMA(slow) and its signal line.
// When legacySignal is set the signal line is the EMA of the closes themselves
// instead of the EMA of the MACD line; older dashboards were built on that value.
func CalculateMACD(closes []float64, fast, slow, signal int, legacySignal bool) (MACD, error) {
	fastSeries, err := EMASeries(closes, fast)
	if err != nil {
		return MACD{}, err
	}
	slowSeries, err := EMASeries(closes, slow)
	if err != nil {
		return MACD{}, err
	}
	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fastSeries[i] - slowSeries[i]
	}

	src := line
	if legacySignal {
		src = closes
	}
	sig, err := CalculateEMA(src, signal)
	if err != nil {
		return MACD{}, err
	}
	last := line[len(line)-1]
	return MACD{Line: last, Signal: sig, Histogram: last - sig}, nil
}
