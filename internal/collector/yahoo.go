package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockPulse/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

var yahooModules = []string{
	"price",
	"summaryDetail",
	"assetProfile",
	"financialData",
	"defaultKeyStatistics",
	"calendarEvents",
}

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yfRaw is the {raw, fmt} pair quoteSummary uses for every numeric field.
type yfRaw struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []yahooSummaryResult `json:"result"`
		Error  *yahooError          `json:"error"`
	} `json:"quoteSummary"`
}

type yahooSummaryResult struct {
	Price *struct {
		LongName                   string `json:"longName"`
		ShortName                  string `json:"shortName"`
		Currency                   string `json:"currency"`
		ExchangeName               string `json:"exchangeName"`
		RegularMarketPrice         *yfRaw `json:"regularMarketPrice"`
		RegularMarketPreviousClose *yfRaw `json:"regularMarketPreviousClose"`
		RegularMarketOpen          *yfRaw `json:"regularMarketOpen"`
		RegularMarketDayHigh       *yfRaw `json:"regularMarketDayHigh"`
		RegularMarketDayLow        *yfRaw `json:"regularMarketDayLow"`
		RegularMarketVolume        *yfRaw `json:"regularMarketVolume"`
		MarketCap                  *yfRaw `json:"marketCap"`
	} `json:"price"`
	SummaryDetail *struct {
		AverageVolume    *yfRaw `json:"averageVolume"`
		TrailingPE       *yfRaw `json:"trailingPE"`
		ForwardPE        *yfRaw `json:"forwardPE"`
		DividendYield    *yfRaw `json:"dividendYield"`
		Beta             *yfRaw `json:"beta"`
		FiftyTwoWeekHigh *yfRaw `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  *yfRaw `json:"fiftyTwoWeekLow"`
		ExDividendDate   *yfRaw `json:"exDividendDate"`
	} `json:"summaryDetail"`
	AssetProfile *struct {
		Sector   string `json:"sector"`
		Industry string `json:"industry"`
		Country  string `json:"country"`
		Website  string `json:"website"`
	} `json:"assetProfile"`
	FinancialData *struct {
		CurrentPrice      *yfRaw `json:"currentPrice"`
		TargetMeanPrice   *yfRaw `json:"targetMeanPrice"`
		RecommendationKey string `json:"recommendationKey"`
	} `json:"financialData"`
	DefaultKeyStatistics *struct {
		PegRatio    *yfRaw `json:"pegRatio"`
		PriceToBook *yfRaw `json:"priceToBook"`
		TrailingEps *yfRaw `json:"trailingEps"`
	} `json:"defaultKeyStatistics"`
	CalendarEvents *struct {
		Earnings *struct {
			EarningsDate []yfRaw `json:"earningsDate"`
		} `json:"earnings"`
	} `json:"calendarEvents"`
}

func raw(v *yfRaw) float64 {
	if v == nil {
		return 0
	}
	return v.Raw
}

func rawTime(v *yfRaw) time.Time {
	if v == nil || v.Raw == 0 {
		return time.Time{}
	}
	return dayOf(time.Unix(int64(v.Raw), 0))
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// FetchBars requests daily bars between from and to using the chart endpoint.
func (f *YahooFetcher) FetchBars(ctx context.Context, symbol string, from, to time.Time) ([]model.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), from.Unix(), to.Unix())

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	at := func(s []*float64, i int) float64 {
		if i >= len(s) {
			return 0
		}
		return deref(s[i])
	}
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.Bar{
			Date:   dayOf(time.Unix(ts, 0)),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: int64(at(quote.Volume, i)),
		})
	}

	return normalizeBars(bars), nil
}

// FetchInfo reads the quoteSummary modules into a SymbolInfo. Absent modules
// and fields resolve to zero values.
func (f *YahooFetcher) FetchInfo(ctx context.Context, symbol string) (*model.SymbolInfo, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), strings.Join(yahooModules, ","))

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no summary data")
	}
	return summaryToInfo(symbol, &summary.QuoteSummary.Result[0]), nil
}

func summaryToInfo(symbol string, r *yahooSummaryResult) *model.SymbolInfo {
	info := &model.SymbolInfo{Symbol: symbol}

	if p := r.Price; p != nil {
		info.Name = p.LongName
		if info.Name == "" {
			info.Name = p.ShortName
		}
		info.Currency = p.Currency
		info.Exchange = p.ExchangeName
		info.CurrentPrice = raw(p.RegularMarketPrice)
		info.PreviousClose = raw(p.RegularMarketPreviousClose)
		info.Open = raw(p.RegularMarketOpen)
		info.DayHigh = raw(p.RegularMarketDayHigh)
		info.DayLow = raw(p.RegularMarketDayLow)
		info.Volume = int64(raw(p.RegularMarketVolume))
		info.MarketCap = raw(p.MarketCap)
	}
	if d := r.SummaryDetail; d != nil {
		info.AvgVolume = int64(raw(d.AverageVolume))
		info.TrailingPE = raw(d.TrailingPE)
		info.ForwardPE = raw(d.ForwardPE)
		info.DividendYield = raw(d.DividendYield)
		info.Beta = raw(d.Beta)
		info.FiftyTwoWeekHigh = raw(d.FiftyTwoWeekHigh)
		info.FiftyTwoWeekLow = raw(d.FiftyTwoWeekLow)
		info.ExDividendDate = rawTime(d.ExDividendDate)
	}
	if a := r.AssetProfile; a != nil {
		info.Sector = a.Sector
		info.Industry = a.Industry
		info.Country = a.Country
		info.Website = a.Website
	}
	if fd := r.FinancialData; fd != nil {
		if info.CurrentPrice == 0 {
			info.CurrentPrice = raw(fd.CurrentPrice)
		}
		info.TargetMeanPrice = raw(fd.TargetMeanPrice)
		info.Recommendation = fd.RecommendationKey
	}
	if ks := r.DefaultKeyStatistics; ks != nil {
		info.PEGRatio = raw(ks.PegRatio)
		info.PriceToBook = raw(ks.PriceToBook)
		info.EPS = raw(ks.TrailingEps)
	}
	if ce := r.CalendarEvents; ce != nil && ce.Earnings != nil && len(ce.Earnings.EarningsDate) > 0 {
		info.NextEarningsDate = rawTime(&ce.Earnings.EarningsDate[0])
	}
	return info
}
