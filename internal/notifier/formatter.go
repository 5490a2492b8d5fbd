package notifier

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"

	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
)

const topMovers = 3

// FormatRunDigest formats one cycle's summary into a Telegram message.
func FormatRunDigest(s *model.Summary, profiles []*model.Profile) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>StockPulse</b> | %s\n\n", s.LastUpdated.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Stocks: %d | ▲ %d ▼ %d = %d\n", s.TotalStocks, s.Gainers, s.Losers, s.Unchanged))
	b.WriteString(fmt.Sprintf("Avg change: %+.2f%%\n", s.AverageChangePercent))
	b.WriteString(fmt.Sprintf("Sentiment: %d bullish, %d bearish, %d neutral\n",
		s.MarketSentiment.Bullish, s.MarketSentiment.Bearish, s.MarketSentiment.Neutral))
	if s.TotalMarketCap > 0 {
		b.WriteString(fmt.Sprintf("Market cap: %s\n", humanize(s.TotalMarketCap)))
	}

	if movers := sortedByChange(profiles); len(movers) > 0 {
		b.WriteString("\n📈 <b>Top movers:</b>\n")
		for i, p := range movers {
			if i == topMovers {
				break
			}
			b.WriteString(fmt.Sprintf("  %s %.2f (%+.2f%%)\n", html.EscapeString(p.Symbol), p.CurrentPrice, p.ChangePercent))
		}
	}

	if s.Insights.Sentiment != "" {
		b.WriteString(fmt.Sprintf("\n💡 %s\n", html.EscapeString(s.Insights.Sentiment)))
	}
	if s.Insights.TopPick != "" && len(profiles) > 0 {
		b.WriteString(fmt.Sprintf("⭐ %s\n", html.EscapeString(s.Insights.TopPick)))
	}
	for _, r := range s.Insights.Risks {
		b.WriteString(fmt.Sprintf("⚠️ %s\n", html.EscapeString(r)))
	}

	if len(s.FailedSymbols) > 0 {
		names := make([]string, len(s.FailedSymbols))
		for i, f := range s.FailedSymbols {
			names[i] = f.Symbol
		}
		b.WriteString(fmt.Sprintf("\n❌ Skipped: %s\n", html.EscapeString(strings.Join(names, ", "))))
	}
	return b.String()
}

// RunMessages returns the messages sent after a refresh: the digest, then
// move alerts when threshold is positive and a symbol reached it.
func RunMessages(s *model.Summary, profiles []*model.Profile, threshold float64) []string {
	msgs := []string{FormatRunDigest(s, profiles)}
	if threshold > 0 {
		if alerts := FormatAlerts(profiles, threshold); alerts != "" {
			msgs = append(msgs, alerts)
		}
	}
	return msgs
}

// FormatAlerts lists symbols whose daily move reached threshold percent.
// It returns "" when nothing moved that much.
func FormatAlerts(profiles []*model.Profile, threshold float64) string {
	var hits []*model.Profile
	for _, p := range sortedByChange(profiles) {
		if math.Abs(p.ChangePercent) >= threshold {
			hits = append(hits, p)
		}
	}
	if len(hits) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚨 <b>Big moves</b> (±%.1f%%)\n\n", threshold))
	for _, p := range hits {
		arrow := "▲"
		if p.ChangePercent < 0 {
			arrow = "▼"
		}
		b.WriteString(fmt.Sprintf("%s %s %.2f (%+.2f%%)\n", arrow, html.EscapeString(p.Symbol), p.CurrentPrice, p.ChangePercent))
	}
	return b.String()
}

// FormatSymbol renders one profile for the /symbol command.
func FormatSymbol(p *model.Profile) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔎 <b>%s</b> %s\n\n", html.EscapeString(p.Symbol), html.EscapeString(p.Name)))
	b.WriteString(fmt.Sprintf("Price: %.2f (%+.2f, %+.2f%%)\n", p.CurrentPrice, p.Change, p.ChangePercent))
	b.WriteString(fmt.Sprintf("5d: %+.2f%% | 30d: %+.2f%% | 60d: %+.2f%%\n",
		p.Change5dPercent, p.Change30dPercent, p.Change60dPercent))
	if p.FiftyTwoWeekHigh > 0 {
		b.WriteString(fmt.Sprintf("52w: %.2f - %.2f\n", p.FiftyTwoWeekLow, p.FiftyTwoWeekHigh))
	}
	if p.Sector != "" {
		b.WriteString(fmt.Sprintf("Sector: %s\n", html.EscapeString(p.Sector)))
	}
	if p.Indicators.Empty() {
		b.WriteString("\nNot enough history for indicators\n")
		return b.String()
	}
	b.WriteString("\n")
	if v, ok := p.Indicators.Get(model.IndRSI); ok {
		b.WriteString(fmt.Sprintf("RSI(14): %.1f %s\n", v, p.Signals.RSI))
	}
	if v, ok := p.Indicators.Get(model.IndMACD); ok {
		b.WriteString(fmt.Sprintf("MACD: %.3f %s\n", v, p.Signals.MACD))
	}
	if v, ok := p.Indicators.Get(model.IndSMA20); ok {
		b.WriteString(fmt.Sprintf("SMA20: %.2f", v))
		if v50, ok := p.Indicators.Get(model.IndSMA50); ok {
			b.WriteString(fmt.Sprintf(" | SMA50: %.2f", v50))
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Trend: %s | Volume: %s\n", p.Signals.Trend, p.Signals.Volume))
	b.WriteString(fmt.Sprintf("Score: %+.2f\n", p.Signals.Score))
	return b.String()
}

// FormatRunHistory renders recent runs for the /history command.
func FormatRunHistory(runs []recorder.RunRecord) string {
	if len(runs) == 0 {
		return "No runs recorded yet"
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent runs</b>\n\n")
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s  %d stocks ▲%d ▼%d avg %+.2f%%",
			r.Timestamp.Format("01-02 15:04"), r.TotalStocks, r.Gainers, r.Losers, r.AverageChangePercent))
		if r.FailedCount > 0 {
			b.WriteString(fmt.Sprintf(" (%d failed)", r.FailedCount))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "<b>Commands</b>\n" +
		"/summary - latest portfolio summary\n" +
		"/symbol TICKER - details for one symbol\n" +
		"/refresh - run a refresh cycle now\n" +
		"/history - recent runs\n" +
		"/help - this message"
}

func sortedByChange(profiles []*model.Profile) []*model.Profile {
	out := make([]*model.Profile, len(profiles))
	copy(out, profiles)
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].ChangePercent) > math.Abs(out[j].ChangePercent)
	})
	return out
}

func humanize(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
