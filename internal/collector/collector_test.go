package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockPulse/internal/model"
)

func TestCollect_PartialFailure(t *testing.T) {
	f := &MockFetcher{
		Price:  100,
		Errors: map[string]error{"BAD": errors.New("upstream 500")},
	}
	c := NewCollector(f, []string{"AAPL", "BAD", "MSFT"}, 60, 0)

	results := c.Collect(context.Background())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	var ok int
	for _, r := range results {
		if r.OK() {
			ok++
		}
	}
	if ok != 2 {
		t.Errorf("expected 2 successes, got %d", ok)
	}
	if results[1].Symbol != "BAD" || results[1].Err == nil || results[1].Profile != nil {
		t.Errorf("failed symbol not isolated: %+v", results[1])
	}
	if results[0].Symbol != "AAPL" || results[2].Symbol != "MSFT" {
		t.Error("results must follow configured order")
	}
}

func TestCollect_InfoFailureFallsBackToBars(t *testing.T) {
	f := &MockFetcher{
		Price:      100,
		InfoErrors: map[string]error{"AAPL": errors.New("status 401: Invalid Crumb")},
	}
	c := NewCollector(f, []string{"AAPL", "MSFT"}, 60, 0)

	results := c.Collect(context.Background())
	profiles, failed := model.SplitResults(results)
	if len(profiles) != 2 || len(failed) != 0 {
		t.Fatalf("expected 2 profiles and no failures, got %d/%d", len(profiles), len(failed))
	}
	p := profiles[0]
	if p.Symbol != "AAPL" {
		t.Fatalf("unexpected order: %s", p.Symbol)
	}
	if p.Name != "AAPL" {
		t.Errorf("name should fall back to symbol, got %q", p.Name)
	}
	if p.CurrentPrice <= 0 || p.Volume == 0 {
		t.Errorf("price/volume not taken from bars: %+v", p)
	}
	if p.Sector != "" {
		t.Errorf("sector should stay empty without info, got %q", p.Sector)
	}
	if profiles[1].Sector != "Technology" {
		t.Errorf("MSFT info not applied: %q", profiles[1].Sector)
	}
}

func TestCollect_BarsRequestWindow(t *testing.T) {
	now := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	rec := &recordingFetcher{MockFetcher: MockFetcher{Price: 50}}
	c := NewCollector(rec, []string{"TSLA"}, 30, 0)
	c.now = func() time.Time { return now }

	results := c.Collect(context.Background())
	if len(results) != 1 || !results[0].OK() {
		t.Fatalf("unexpected results: %+v", results)
	}
	if !rec.from.Equal(now.AddDate(0, 0, -30)) || !rec.to.Equal(now) {
		t.Errorf("window = [%v, %v]", rec.from, rec.to)
	}
	if got := len(results[0].Profile.HistoricalData); got != 30 {
		t.Errorf("expected 30 generated bars, got %d", got)
	}
}

func TestCollect_CancelDuringPause(t *testing.T) {
	f := &MockFetcher{Price: 10}
	c := NewCollector(f, []string{"A", "B", "C"}, 30, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	done := make(chan int, 1)
	go func() { done <- len(c.Collect(ctx)) }()

	select {
	case n := <-done:
		if n != 1 {
			t.Errorf("expected 1 result before cancellation, got %d", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Collect did not return after cancellation")
	}
}

type recordingFetcher struct {
	MockFetcher
	from, to time.Time
}

func (r *recordingFetcher) FetchBars(ctx context.Context, symbol string, from, to time.Time) ([]model.Bar, error) {
	r.from, r.to = from, to
	return r.MockFetcher.FetchBars(ctx, symbol, from, to)
}
