package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockPulse/internal/model"
)

// HTTPFetcher implements Fetcher against a self-hosted REST market-data API.
type HTTPFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPFetcher creates a new fetcher with optional proxy support.
func NewHTTPFetcher(baseURL, apiKey, proxyURL string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// apiBar is the expected JSON shape of one bar.
type apiBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// apiInfo is the expected JSON shape of the info endpoint. Every field is optional.
type apiInfo struct {
	Name             string  `json:"name"`
	Sector           string  `json:"sector"`
	Industry         string  `json:"industry"`
	Country          string  `json:"country"`
	Currency         string  `json:"currency"`
	Exchange         string  `json:"exchange"`
	Website          string  `json:"website"`
	Price            float64 `json:"price"`
	PreviousClose    float64 `json:"previous_close"`
	Open             float64 `json:"open"`
	DayHigh          float64 `json:"day_high"`
	DayLow           float64 `json:"day_low"`
	Volume           int64   `json:"volume"`
	AvgVolume        int64   `json:"avg_volume"`
	MarketCap        float64 `json:"market_cap"`
	TrailingPE       float64 `json:"trailing_pe"`
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
	NextEarnings     int64   `json:"next_earnings"`
	ExDividend       int64   `json:"ex_dividend"`
}

func (f *HTTPFetcher) FetchBars(ctx context.Context, symbol string, from, to time.Time) ([]model.Bar, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", from.Format("2006-01-02"))
	q.Set("to", to.Format("2006-01-02"))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, q.Encode())

	var raw []apiBar
	if err := f.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	bars := make([]model.Bar, len(raw))
	for i, b := range raw {
		bars[i] = model.Bar{
			Date:   dayOf(time.Unix(b.Timestamp, 0)),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		}
	}
	return normalizeBars(bars), nil
}

func (f *HTTPFetcher) FetchInfo(ctx context.Context, symbol string) (*model.SymbolInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v1/info?symbol=%s", f.BaseURL, url.QueryEscape(symbol))

	var a apiInfo
	if err := f.getJSON(ctx, endpoint, &a); err != nil {
		return nil, fmt.Errorf("fetch info: %w", err)
	}
	info := &model.SymbolInfo{
		Symbol:           symbol,
		Name:             a.Name,
		Sector:           a.Sector,
		Industry:         a.Industry,
		Country:          a.Country,
		Currency:         a.Currency,
		Exchange:         a.Exchange,
		Website:          a.Website,
		CurrentPrice:     a.Price,
		PreviousClose:    a.PreviousClose,
		Open:             a.Open,
		DayHigh:          a.DayHigh,
		DayLow:           a.DayLow,
		Volume:           a.Volume,
		AvgVolume:        a.AvgVolume,
		MarketCap:        a.MarketCap,
		TrailingPE:       a.TrailingPE,
		ForwardPE:        a.ForwardPE,
		PEGRatio:         a.PEGRatio,
		PriceToBook:      a.PriceToBook,
		DividendYield:    a.DividendYield,
		Beta:             a.Beta,
		EPS:              a.EPS,
		FiftyTwoWeekHigh: a.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  a.FiftyTwoWeekLow,
		TargetMeanPrice:  a.TargetMeanPrice,
		Recommendation:   a.Recommendation,
	}
	if a.NextEarnings > 0 {
		info.NextEarningsDate = dayOf(time.Unix(a.NextEarnings, 0))
	}
	if a.ExDividend > 0 {
		info.ExDividendDate = dayOf(time.Unix(a.ExDividend, 0))
	}
	return info, nil
}

func (f *HTTPFetcher) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
