package collector

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockPulse/internal/model"
)

// Fetcher defines the interface for fetching market data.
// FetchBars returns daily bars within [from, to] ordered by ascending date.
type Fetcher interface {
	FetchInfo(ctx context.Context, symbol string) (*model.SymbolInfo, error)
	FetchBars(ctx context.Context, symbol string, from, to time.Time) ([]model.Bar, error)
	Name() string
}

// newHTTPClient builds a client with an optional proxy.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// dayOf truncates a timestamp to its calendar day in the exchange's reporting location.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// normalizeBars sorts by date and keeps the last bar of any repeated day, so the
// series is strictly ascending.
func normalizeBars(bars []model.Bar) []model.Bar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
