package model

// Zone labels a coarse reading of one indicator.
type Zone string

const (
	ZoneOverbought Zone = "OVERBOUGHT"
	ZoneOversold   Zone = "OVERSOLD"
	ZoneBullish    Zone = "BULLISH"
	ZoneBearish    Zone = "BEARISH"
	ZoneHigh       Zone = "HIGH"
	ZoneLow        Zone = "LOW"
	ZoneNeutral    Zone = "NEUTRAL"
	ZoneUnknown    Zone = "UNKNOWN"
)

// TechnicalSignals is the per-symbol reading of its indicator set.
type TechnicalSignals struct {
	RSI         Zone    `json:"rsi"`
	MACD        Zone    `json:"macd"`
	Trend       Zone    `json:"trend"`
	Volume      Zone    `json:"volume"`
	AboveSMA20  bool    `json:"above_sma_20"`
	AboveSMA50  bool    `json:"above_sma_50"`
	GoldenCross bool    `json:"golden_cross"`
	Score       float64 `json:"score"`
}
