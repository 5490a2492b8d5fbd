package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/api/v1/bars/daily":
			if r.URL.Query().Get("from") != "2024-06-01" {
				http.Error(w, "bad from", http.StatusBadRequest)
				return
			}
			w.Write([]byte(`[
				{"timestamp":1717545600,"open":11,"high":12,"low":10,"close":11.5,"volume":900},
				{"timestamp":1717459200,"open":10,"high":11,"low":9,"close":10.5,"volume":800}
			]`))
		case "/api/v1/info":
			w.Write([]byte(`{"name":"Acme","sector":"Industrials","price":11.5,"market_cap":1e9,"next_earnings":1722556800}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "secret", "")
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchBars(context.Background(), "ACME", from, from.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("FetchBars failed: %v", err)
	}
	if len(bars) != 2 || bars[0].Close != 10.5 || bars[1].Close != 11.5 {
		t.Errorf("bars should be sorted ascending: %+v", bars)
	}

	info, err := f.FetchInfo(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("FetchInfo failed: %v", err)
	}
	if info.Name != "Acme" || info.MarketCap != 1e9 || info.NextEarningsDate.IsZero() {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.TrailingPE != 0 || info.Country != "" {
		t.Errorf("absent fields must stay zero: %+v", info)
	}

	bad := NewHTTPFetcher(srv.URL, "wrong", "")
	if _, err := bad.FetchInfo(context.Background(), "ACME"); err == nil {
		t.Error("expected unauthorized error")
	}
}
