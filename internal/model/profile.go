package model

import "time"

// SymbolInfo is the descriptive/fundamental snapshot supplied by a data provider.
// Every field is optional upstream; providers resolve absent values to the zero
// value (0 for numbers, "" for text, zero time for dates) when filling it in.
type SymbolInfo struct {
	Symbol   string
	Name     string
	Sector   string
	Industry string
	Country  string
	Currency string
	Exchange string
	Website  string

	CurrentPrice  float64
	PreviousClose float64
	Open          float64
	DayHigh       float64
	DayLow        float64
	Volume        int64
	AvgVolume     int64

	MarketCap        float64
	TrailingPE       float64
	ForwardPE        float64
	PEGRatio         float64
	PriceToBook      float64
	DividendYield    float64
	Beta             float64
	EPS              float64
	FiftyTwoWeekHigh float64
	FiftyTwoWeekLow  float64
	TargetMeanPrice  float64
	Recommendation   string

	NextEarningsDate time.Time
	ExDividendDate   time.Time
}

// Profile is the normalized per-symbol record written to the stocks document.
type Profile struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange"`
	Website  string `json:"website"`

	CurrentPrice     float64 `json:"current_price"`
	PreviousClose    float64 `json:"previous_close"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"change_percent"`
	Change5dPercent  float64 `json:"change_5d_percent"`
	Change30dPercent float64 `json:"change_30d_percent"`
	Change60dPercent float64 `json:"change_60d_percent"`

	Open      float64 `json:"open"`
	DayHigh   float64 `json:"day_high"`
	DayLow    float64 `json:"day_low"`
	Volume    int64   `json:"volume"`
	AvgVolume int64   `json:"avg_volume"`

	MarketCap        float64 `json:"market_cap"`
	PERatio          float64 `json:"pe_ratio"`
	ForwardPE        float64 `json:"forward_pe"`
	PEGRatio         float64 `json:"peg_ratio"`
	PriceToBook      float64 `json:"price_to_book"`
	DividendYield    float64 `json:"dividend_yield"`
	Beta             float64 `json:"beta"`
	EPS              float64 `json:"eps"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
	TargetMeanPrice  float64 `json:"target_mean_price"`
	Recommendation   string  `json:"recommendation"`

	NextEarningsDate string `json:"next_earnings_date"`
	ExDividendDate   string `json:"ex_dividend_date"`

	Indicators     IndicatorSet     `json:"technical_indicators"`
	Signals        TechnicalSignals `json:"signals"`
	HistoricalData []HistoricalBar  `json:"historical_data"`
	LastUpdated    time.Time        `json:"last_updated"`

	bars []Bar
}

// Bars returns the series the profile was built from.
func (p *Profile) Bars() []Bar { return p.bars }

// SetBars attaches the series; used only by the profile builder.
func (p *Profile) SetBars(bars []Bar) { p.bars = bars }

// SymbolResult is the outcome of processing one symbol in a refresh cycle.
type SymbolResult struct {
	Symbol  string
	Profile *Profile
	Err     error
}

// OK reports whether the symbol produced a profile.
func (r SymbolResult) OK() bool { return r.Err == nil && r.Profile != nil }

// SplitResults separates successful profiles from failures, preserving order.
func SplitResults(results []SymbolResult) ([]*Profile, []SymbolResult) {
	var profiles []*Profile
	var failed []SymbolResult
	for _, r := range results {
		if r.OK() {
			profiles = append(profiles, r.Profile)
		} else {
			failed = append(failed, r)
		}
	}
	return profiles, failed
}
