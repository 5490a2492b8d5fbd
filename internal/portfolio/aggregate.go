package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"StockPulse/internal/model"
	"StockPulse/internal/strategy"
)

// Sentiment thresholds on daily percent change.
const (
	BullishAbove = 2.0
	BearishBelow = -2.0
)

// UnknownSector labels profiles whose provider supplied no sector.
const UnknownSector = "Unknown"

type sectorAcc struct {
	stats  *model.SectorStats
	cap    decimal.Decimal
	change decimal.Decimal
}

// Summarize reduces the profiles of one cycle into portfolio statistics.
// An empty input yields zero counts, a zero mean and an empty sector breakdown.
func Summarize(profiles []*model.Profile, now time.Time) *model.Summary {
	s := &model.Summary{
		TotalStocks:     len(profiles),
		SectorBreakdown: make(map[string]*model.SectorStats),
		FailedSymbols:   []model.FailedSymbol{},
		LastUpdated:     now,
	}

	totalCap := decimal.Zero
	totalChange := decimal.Zero
	sectors := make(map[string]*sectorAcc)

	for _, p := range profiles {
		switch {
		case p.ChangePercent > 0:
			s.Gainers++
		case p.ChangePercent < 0:
			s.Losers++
		default:
			s.Unchanged++
		}

		switch {
		case p.ChangePercent > BullishAbove:
			s.MarketSentiment.Bullish++
		case p.ChangePercent < BearishBelow:
			s.MarketSentiment.Bearish++
		default:
			s.MarketSentiment.Neutral++
		}

		capital := decimal.NewFromFloat(p.MarketCap)
		change := decimal.NewFromFloat(p.ChangePercent)
		if p.MarketCap != 0 {
			totalCap = totalCap.Add(capital)
		}
		if p.Volume != 0 {
			s.TotalVolume += p.Volume
		}
		totalChange = totalChange.Add(change)

		sector := p.Sector
		if sector == "" {
			sector = UnknownSector
		}
		acc, ok := sectors[sector]
		if !ok {
			acc = &sectorAcc{stats: &model.SectorStats{Symbols: []string{}}}
			sectors[sector] = acc
		}
		acc.stats.Count++
		acc.stats.Symbols = append(acc.stats.Symbols, p.Symbol)
		acc.cap = acc.cap.Add(capital)
		acc.change = acc.change.Add(change)
	}

	s.TotalMarketCap = totalCap.InexactFloat64()
	if len(profiles) > 0 {
		s.AverageChangePercent = totalChange.Div(decimal.NewFromInt(int64(len(profiles)))).InexactFloat64()
	}
	for name, acc := range sectors {
		acc.stats.TotalMarketCap = acc.cap.InexactFloat64()
		acc.stats.AvgChangePercent = acc.change.Div(decimal.NewFromInt(int64(acc.stats.Count))).InexactFloat64()
		s.SectorBreakdown[name] = acc.stats
	}

	s.Technical = strategy.Breakdown(profiles)
	s.Insights = strategy.Insights(profiles)
	return s
}

// AttachFailures records the symbols that were left out of the cycle.
func AttachFailures(s *model.Summary, failed []model.SymbolResult) {
	for _, r := range failed {
		reason := "no profile"
		if r.Err != nil {
			reason = r.Err.Error()
		}
		s.FailedSymbols = append(s.FailedSymbols, model.FailedSymbol{Symbol: r.Symbol, Reason: reason})
	}
}
