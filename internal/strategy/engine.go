package strategy

import (
	"StockPulse/internal/model"
)

// Factor weights of the technical score.
const (
	weightRSI      = 0.20
	weightMACD     = 0.25
	weightTrend    = 0.25
	weightMomentum = 0.15
	weightPosition = 0.15
)

// Evaluate reads an indicator set into coarse signals for one symbol.
// bars is the series the set was computed from; it supplies the 30-day and
// 52-week ranges.
func Evaluate(price float64, ind model.IndicatorSet, bars []model.Bar) model.TechnicalSignals {
	sig := model.TechnicalSignals{
		RSI:    model.ZoneUnknown,
		MACD:   model.ZoneUnknown,
		Trend:  model.ZoneUnknown,
		Volume: model.ZoneUnknown,
	}
	if ind.Empty() {
		return sig
	}

	rsi := scoreRSI(ind)
	macd := scoreMACD(ind)
	trend := scoreTrend(price, ind, bars)
	mom := scoreMomentum(ind)
	pos := scorePosition(price, bars)

	sig.RSI = rsi.zone
	sig.MACD = macd.zone
	sig.Trend = trend.zone
	sig.Volume = volumeZone(ind)

	if sma20, ok := ind.Get(model.IndSMA20); ok {
		sig.AboveSMA20 = price > sma20
	}
	if sma50, ok := ind.Get(model.IndSMA50); ok {
		sig.AboveSMA50 = price > sma50
		sig.GoldenCross = ind[model.IndSMA20] > sma50
	}

	sig.Score = rsi.raw*weightRSI + macd.raw*weightMACD + trend.raw*weightTrend + mom*weightMomentum + pos*weightPosition
	return sig
}

type factor struct {
	raw  float64
	zone model.Zone
}
