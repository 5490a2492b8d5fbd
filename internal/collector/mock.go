package collector

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	// Bars, when set, is returned for every symbol instead of generated data.
	Bars []model.Bar
	// Info overrides the generated snapshot per symbol.
	Info map[string]*model.SymbolInfo
	// Errors makes both fetches fail for the listed symbols.
	Errors map[string]error
	// InfoErrors makes only FetchInfo fail.
	InfoErrors map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchInfo(_ context.Context, symbol string) (*model.SymbolInfo, error) {
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if err, ok := m.InfoErrors[symbol]; ok {
		return nil, err
	}
	if info, ok := m.Info[symbol]; ok {
		return info, nil
	}
	return &model.SymbolInfo{
		Symbol:   symbol,
		Name:     fmt.Sprintf("%s Corp", symbol),
		Sector:   "Technology",
		Currency: "USD",
	}, nil
}

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, from, to time.Time) ([]model.Bar, error) {
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	days := int(to.Sub(from).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return generateMockBars(m.Price, days, dayOf(to)), nil
}

func generateMockBars(basePrice float64, count int, last time.Time) []model.Bar {
	if basePrice <= 0 {
		basePrice = 100
	}
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   last.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
