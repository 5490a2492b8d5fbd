package calculator

import (
	"errors"
	"math"
)

// CalculateStdDev returns the sample standard deviation of the last period values.
func CalculateStdDev(values []float64, period int) (float64, error) {
	if period < 2 {
		return 0, errors.New("period must be at least 2")
	}
	mean, err := CalculateSMA(values, period)
	if err != nil {
		return 0, err
	}
	var sq float64
	for i := len(values) - period; i < len(values); i++ {
		d := values[i] - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(period-1)), nil
}

// Bands is a Bollinger envelope around a simple moving average.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// CalculateBollinger returns SMA(period) +/- k sample standard deviations.
func CalculateBollinger(closes []float64, period int, k float64) (Bands, error) {
	mid, err := CalculateSMA(closes, period)
	if err != nil {
		return Bands{}, err
	}
	sd, err := CalculateStdDev(closes, period)
	if err != nil {
		return Bands{}, err
	}
	return Bands{Upper: mid + k*sd, Middle: mid, Lower: mid - k*sd}, nil
}
