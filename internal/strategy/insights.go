package strategy

import (
	"fmt"
	"math"
	"sort"

	"StockPulse/internal/model"
)

// Breakdown counts indicator readings over profiles that carry indicators.
func Breakdown(profiles []*model.Profile) model.TechnicalBreakdown {
	var b model.TechnicalBreakdown
	for _, p := range profiles {
		if p.Indicators.Empty() {
			continue
		}
		switch p.Signals.RSI {
		case model.ZoneOverbought:
			b.RSIOverbought++
		case model.ZoneOversold:
			b.RSIOversold++
		case model.ZoneNeutral:
			b.RSINeutral++
		}
		switch p.Signals.MACD {
		case model.ZoneBullish:
			b.MACDBullish++
		case model.ZoneBearish:
			b.MACDBearish++
		case model.ZoneNeutral:
			b.MACDNeutral++
		}
		switch p.Signals.Volume {
		case model.ZoneHigh:
			b.HighVolume++
		case model.ZoneLow:
			b.LowVolume++
		}
		if p.Signals.AboveSMA20 {
			b.AboveSMA20++
		}
		if p.Signals.AboveSMA50 {
			b.AboveSMA50++
		}
		if p.Signals.GoldenCross {
			b.GoldenCross++
		}
	}
	return b
}

// Insights summarizes a run into a sentiment line, a top pick and risk flags.
func Insights(profiles []*model.Profile) model.Insights {
	if len(profiles) == 0 {
		return model.Insights{
			Sentiment: "No data available",
			TopPick:   "No data available",
			Risks:     []string{},
		}
	}
	return model.Insights{
		Sentiment: marketSentiment(profiles),
		TopPick:   topPick(profiles),
		Risks:     risks(profiles),
	}
}

func marketSentiment(profiles []*model.Profile) string {
	total := float64(len(profiles))
	var up, down int
	var sum float64
	for _, p := range profiles {
		switch {
		case p.ChangePercent > 0:
			up++
		case p.ChangePercent < 0:
			down++
		}
		sum += p.ChangePercent
	}
	upPct := float64(up) / total * 100
	downPct := float64(down) / total * 100
	avg := sum / total

	switch {
	case upPct > 60 && avg > 1:
		return fmt.Sprintf("Bullish market sentiment with %.1f%% of stocks up. Average gain: %.2f%%", upPct, avg)
	case downPct > 60 && avg < -1:
		return fmt.Sprintf("Bearish market sentiment with %.1f%% of stocks down. Average loss: %.2f%%", downPct, math.Abs(avg))
	case math.Abs(avg) < 0.5:
		return fmt.Sprintf("Neutral market sentiment. Mixed performance with %.1f%% up, %.1f%% down", upPct, downPct)
	default:
		return fmt.Sprintf("Mixed market sentiment. %.1f%% positive, %.1f%% negative", upPct, downPct)
	}
}

func topPick(profiles []*model.Profile) string {
	var volSum float64
	for _, p := range profiles {
		volSum += float64(p.Volume)
	}
	avgVolume := volSum / float64(len(profiles))

	type scored struct {
		p     *model.Profile
		score float64
	}
	ranked := make([]scored, 0, len(profiles))
	for _, p := range profiles {
		s := p.ChangePercent * 2
		if float64(p.Volume) > avgVolume {
			s += 10
		}
		if p.MarketCap > 1e9 && p.MarketCap < 1e11 {
			s += 5
		}
		if p.PERatio > 0 && p.PERatio < 25 {
			s += 3
		}
		ranked = append(ranked, scored{p, s})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	top := ranked[0]
	if top.score > 0 {
		return fmt.Sprintf("%s (%s) - Strong momentum with %.2f%% gain. Current price: $%.2f",
			top.p.Symbol, top.p.Name, top.p.ChangePercent, top.p.CurrentPrice)
	}
	return fmt.Sprintf("%s (%s) - Best relative performance. Current price: $%.2f",
		top.p.Symbol, top.p.Name, top.p.CurrentPrice)
}

func risks(profiles []*model.Profile) []string {
	out := []string{}

	var absSum float64
	var bigLosers, lowVolume, highPE int
	for _, p := range profiles {
		absSum += math.Abs(p.ChangePercent)
		if p.ChangePercent < -10 {
			bigLosers++
		}
		if p.Volume < 1_000_000 {
			lowVolume++
		}
		if p.PERatio > 50 {
			highPE++
		}
	}
	if absSum/float64(len(profiles)) > 5 {
		out = append(out, "High market volatility detected")
	}
	if bigLosers > 0 {
		out = append(out, fmt.Sprintf("%d stocks down more than 10%%", bigLosers))
	}
	if float64(lowVolume) > float64(len(profiles))*0.3 {
		out = append(out, "Many stocks showing low trading volume")
	}
	if highPE > 0 {
		out = append(out, fmt.Sprintf("%d stocks with P/E ratios above 50", highPE))
	}
	return out
}
