package strategy

import (
	"math"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

// scoreRSI maps RSI(14) onto [-1, 1]; above 70 is overbought, below 30 oversold.
func scoreRSI(ind model.IndicatorSet) factor {
	rsi, ok := ind.Get(model.IndRSI)
	if !ok {
		return factor{0, model.ZoneUnknown}
	}
	switch {
	case rsi > 70:
		return factor{1.0, model.ZoneOverbought}
	case rsi >= 55:
		return factor{0.5, model.ZoneNeutral}
	case rsi > 45:
		return factor{0, model.ZoneNeutral}
	case rsi >= 30:
		return factor{-0.5, model.ZoneNeutral}
	default:
		return factor{-1.0, model.ZoneOversold}
	}
}

// scoreMACD reads the sign of the MACD line, strengthened when the histogram agrees.
func scoreMACD(ind model.IndicatorSet) factor {
	macd, ok := ind.Get(model.IndMACD)
	if !ok {
		return factor{0, model.ZoneUnknown}
	}
	hist := ind[model.IndMACDHistogram]
	switch {
	case macd > 0 && hist > 0:
		return factor{1.0, model.ZoneBullish}
	case macd > 0:
		return factor{0.5, model.ZoneBullish}
	case macd < 0 && hist < 0:
		return factor{-1.0, model.ZoneBearish}
	case macd < 0:
		return factor{-0.5, model.ZoneBearish}
	default:
		return factor{0, model.ZoneNeutral}
	}
}

// scoreTrend scores moving-average alignment and proximity to 30-day extremes.
// Bull alignment: price > SMA20 > SMA50. Bear alignment: price < SMA20 < SMA50.
// Without SMA50 only the price/SMA20 relation is used.
func scoreTrend(price float64, ind model.IndicatorSet, bars []model.Bar) factor {
	sma20, ok := ind.Get(model.IndSMA20)
	if !ok {
		return factor{0, model.ZoneUnknown}
	}
	var bullish, bearish bool
	if sma50, ok := ind.Get(model.IndSMA50); ok {
		bullish = price > sma20 && sma20 > sma50
		bearish = price < sma20 && sma20 < sma50
	} else {
		bullish = price > sma20
		bearish = price < sma20
	}

	var near30dHigh, near30dLow bool
	if high, low, err := calculator.Calculate30DayRange(bars); err == nil && high > 0 && low > 0 {
		near30dHigh = math.Abs(price-high)/high < 0.01
		near30dLow = math.Abs(price-low)/low < 0.01
	}

	switch {
	case bullish && near30dHigh:
		return factor{1.5, model.ZoneBullish}
	case bullish:
		return factor{1.0, model.ZoneBullish}
	case bearish && near30dLow:
		return factor{-1.5, model.ZoneBearish}
	case bearish:
		return factor{-1.0, model.ZoneBearish}
	default:
		return factor{0, model.ZoneNeutral}
	}
}

func scoreMomentum(ind model.IndicatorSet) float64 {
	m := ind[model.IndMomentum]
	switch {
	case m >= 5:
		return 1.0
	case m >= 1:
		return 0.5
	case m <= -5:
		return -1.0
	case m <= -1:
		return -0.5
	default:
		return 0
	}
}

// scorePosition reads where price sits inside its 52-week range.
func scorePosition(price float64, bars []model.Bar) float64 {
	high, low, err := calculator.Calculate52WeekRange(bars)
	if err != nil {
		return 0
	}
	pos, err := calculator.Calculate52WeekPosition(price, high, low)
	if err != nil {
		return 0
	}
	switch {
	case pos >= 0.9:
		return 1.0
	case pos >= 0.7:
		return 0.5
	case pos <= 0.1:
		return -1.0
	case pos <= 0.3:
		return -0.5
	default:
		return 0
	}
}

// volumeZone compares the last volume with its 20-day average.
func volumeZone(ind model.IndicatorSet) model.Zone {
	ratio, ok := ind.Get(model.IndVolumeRatio)
	if !ok {
		return model.ZoneUnknown
	}
	switch {
	case ratio > 1.5:
		return model.ZoneHigh
	case ratio < 0.5:
		return model.ZoneLow
	default:
		return model.ZoneNeutral
	}
}
