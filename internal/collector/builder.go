package collector

import (
	"errors"
	"time"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
	"StockPulse/internal/strategy"
)

// ErrNoHistory is returned when a provider yields an empty bar series.
var ErrNoHistory = errors.New("no historical data")

// BuildOptions controls profile construction.
type BuildOptions struct {
	Indicators calculator.Options
	Now        time.Time
}

// BuildProfile combines a provider snapshot with a bar series into one profile.
// info may be nil, in which case every descriptive field takes its zero value.
func BuildProfile(symbol string, info *model.SymbolInfo, bars []model.Bar, opts BuildOptions) (*model.Profile, error) {
	if len(bars) == 0 {
		return nil, ErrNoHistory
	}
	if info == nil {
		info = &model.SymbolInfo{}
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	n := len(bars)
	last := bars[n-1]
	prevClose := last.Close
	if n > 1 {
		prevClose = bars[n-2].Close
	}

	p := &model.Profile{
		Symbol:   symbol,
		Name:     info.Name,
		Sector:   info.Sector,
		Industry: info.Industry,
		Country:  info.Country,
		Currency: info.Currency,
		Exchange: info.Exchange,
		Website:  info.Website,

		CurrentPrice:     info.CurrentPrice,
		PreviousClose:    info.PreviousClose,
		Change:           last.Close - prevClose,
		ChangePercent:    calculator.PercentChange(bars, 1),
		Change5dPercent:  calculator.PercentChange(bars, 5),
		Change30dPercent: calculator.PercentChange(bars, 30),
		Change60dPercent: calculator.PercentChange(bars, 60),

		Open:      info.Open,
		DayHigh:   info.DayHigh,
		DayLow:    info.DayLow,
		Volume:    info.Volume,
		AvgVolume: info.AvgVolume,

		MarketCap:        info.MarketCap,
		PERatio:          info.TrailingPE,
		ForwardPE:        info.ForwardPE,
		PEGRatio:         info.PEGRatio,
		PriceToBook:      info.PriceToBook,
		DividendYield:    info.DividendYield,
		Beta:             info.Beta,
		EPS:              info.EPS,
		FiftyTwoWeekHigh: info.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  info.FiftyTwoWeekLow,
		TargetMeanPrice:  info.TargetMeanPrice,
		Recommendation:   info.Recommendation,

		NextEarningsDate: formatDate(info.NextEarningsDate),
		ExDividendDate:   formatDate(info.ExDividendDate),

		HistoricalData: model.ToHistorical(bars),
		LastUpdated:    opts.Now,
	}

	if p.Name == "" {
		p.Name = symbol
	}
	if p.CurrentPrice == 0 {
		p.CurrentPrice = last.Close
	}
	if p.PreviousClose == 0 {
		p.PreviousClose = prevClose
	}
	if p.Open == 0 {
		p.Open = last.Open
	}
	if p.DayHigh == 0 {
		p.DayHigh = last.High
	}
	if p.DayLow == 0 {
		p.DayLow = last.Low
	}
	if p.Volume == 0 {
		p.Volume = last.Volume
	}
	if p.FiftyTwoWeekHigh == 0 || p.FiftyTwoWeekLow == 0 {
		if high, low, err := calculator.Calculate52WeekRange(bars); err == nil {
			p.FiftyTwoWeekHigh = high
			p.FiftyTwoWeekLow = low
		}
	}

	p.Indicators = calculator.Compute(bars, opts.Indicators)
	p.Signals = strategy.Evaluate(p.CurrentPrice, p.Indicators, bars)
	p.SetBars(bars)
	return p, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
