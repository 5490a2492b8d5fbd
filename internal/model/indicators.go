package model

// Indicator names used as IndicatorSet keys.
const (
	IndSMA20         = "sma_20"
	IndSMA50         = "sma_50"
	IndEMA12         = "ema_12"
	IndEMA26         = "ema_26"
	IndMACD          = "macd"
	IndMACDSignal    = "macd_signal"
	IndMACDHistogram = "macd_histogram"
	IndRSI           = "rsi"
	IndBBUpper       = "bb_upper"
	IndBBMiddle      = "bb_middle"
	IndBBLower       = "bb_lower"
	IndVolumeSMA     = "volume_sma"
	IndVolumeRatio   = "volume_ratio"
	IndMomentum      = "momentum"
)

// IndicatorSet maps indicator name to value as of the last bar of a series.
// An indicator that could not be computed is absent, never zero.
type IndicatorSet map[string]float64

// Get returns the indicator value and whether it is available.
func (s IndicatorSet) Get(name string) (float64, bool) {
	v, ok := s[name]
	return v, ok
}

// Empty reports whether no indicator is available.
func (s IndicatorSet) Empty() bool { return len(s) == 0 }
