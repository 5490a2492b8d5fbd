package model

import "time"

// Sentiment buckets symbols by daily percent change.
type Sentiment struct {
	Bullish int `json:"bullish"`
	Bearish int `json:"bearish"`
	Neutral int `json:"neutral"`
}

// SectorStats is the rollup for one sector label.
type SectorStats struct {
	Count            int      `json:"count"`
	TotalMarketCap   float64  `json:"total_market_cap"`
	AvgChangePercent float64  `json:"avg_change_percent"`
	Symbols          []string `json:"symbols"`
}

// TechnicalBreakdown counts symbols per indicator reading.
type TechnicalBreakdown struct {
	RSIOverbought int `json:"rsi_overbought"`
	RSIOversold   int `json:"rsi_oversold"`
	RSINeutral    int `json:"rsi_neutral"`
	MACDBullish   int `json:"macd_bullish"`
	MACDBearish   int `json:"macd_bearish"`
	MACDNeutral   int `json:"macd_neutral"`
	AboveSMA20    int `json:"above_sma_20"`
	AboveSMA50    int `json:"above_sma_50"`
	GoldenCross   int `json:"golden_cross"`
	HighVolume    int `json:"high_volume"`
	LowVolume     int `json:"low_volume"`
}

// Insights are the human-readable conclusions drawn over a whole run.
type Insights struct {
	Sentiment string   `json:"sentiment"`
	TopPick   string   `json:"top_pick"`
	Risks     []string `json:"risks"`
}

// FailedSymbol records why a symbol was left out of a run.
type FailedSymbol struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// Summary is the portfolio-level aggregate over one refresh cycle.
type Summary struct {
	RunID                string                  `json:"run_id"`
	TotalStocks          int                     `json:"total_stocks"`
	Gainers              int                     `json:"gainers"`
	Losers               int                     `json:"losers"`
	Unchanged            int                     `json:"unchanged"`
	TotalMarketCap       float64                 `json:"total_market_cap"`
	TotalVolume          int64                   `json:"total_volume"`
	AverageChangePercent float64                 `json:"average_change_percent"`
	MarketSentiment      Sentiment               `json:"market_sentiment"`
	SectorBreakdown      map[string]*SectorStats `json:"sector_breakdown"`
	Technical            TechnicalBreakdown      `json:"technical_breakdown"`
	Insights             Insights                `json:"insights"`
	FailedSymbols        []FailedSymbol          `json:"failed_symbols"`
	LastUpdated          time.Time               `json:"last_updated"`
}
