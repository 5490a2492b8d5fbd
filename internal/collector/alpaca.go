package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"StockPulse/internal/model"
)

// AlpacaFetcher implements Fetcher on Alpaca's market data API (IEX feed).
// Alpaca carries no fundamentals, so FetchInfo fills only the latest trade price.
type AlpacaFetcher struct {
	client *marketdata.Client
}

// NewAlpacaFetcher creates a fetcher authenticated with an API key pair.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchBars(ctx context.Context, symbol string, from, to time.Time) ([]model.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     from,
		End:       to,
		Feed:      marketdata.IEX,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars: %w", err)
	}
	bars := make([]model.Bar, len(raw))
	for i, b := range raw {
		bars[i] = model.Bar{
			Date:   dayOf(b.Timestamp),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		}
	}
	return normalizeBars(bars), nil
}

func (f *AlpacaFetcher) FetchInfo(ctx context.Context, symbol string) (*model.SymbolInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	trade, err := f.client.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{
		Feed: marketdata.IEX,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca latest trade: %w", err)
	}
	info := &model.SymbolInfo{Symbol: symbol, Currency: "USD"}
	if trade != nil {
		info.CurrentPrice = trade.Price
	}
	return info, nil
}
