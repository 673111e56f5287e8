package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// YahooOptions parameterise the Yahoo Finance chart fetcher.
type YahooOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Yahoo fetches daily close series from the Yahoo Finance chart API.
type Yahoo struct {
	logger    zerolog.Logger
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewYahoo constructs a price history fetcher.
func NewYahoo(opts YahooOptions, logger zerolog.Logger) *Yahoo {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}

	return &Yahoo{
		logger:    logger.With().Str("component", "price_fetcher").Logger(),
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// yahooChart mirrors the chart API response. Close values are pointers
// because holidays arrive as JSON nulls.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyCloses returns the chronological daily close series for the
// given Yahoo range (e.g. "3mo"). Null bars are skipped.
func (y *Yahoo) FetchDailyCloses(ctx context.Context, symbol, lookback string) ([]float64, error) {
	if lookback == "" {
		lookback = "3mo"
	}
	return y.fetchCloses(ctx, symbol, lookback)
}

// FetchPriceStats derives the latest close and the trailing 1-year high/low
// from a single close series.
func (y *Yahoo) FetchPriceStats(ctx context.Context, symbol string) (PriceStats, error) {
	closes, err := y.fetchCloses(ctx, symbol, "1y")
	if err != nil {
		return PriceStats{}, err
	}

	high, low := closes[0], closes[0]
	for _, c := range closes[1:] {
		if c > high {
			high = c
		}
		if c < low {
			low = c
		}
	}

	return PriceStats{
		Symbol:  symbol,
		Current: decimal.NewFromFloat(closes[len(closes)-1]),
		High52w: decimal.NewFromFloat(high),
		Low52w:  decimal.NewFromFloat(low),
	}, nil
}

func (y *Yahoo) fetchCloses(ctx context.Context, symbol, rng string) ([]float64, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		y.baseURL, url.PathEscape(symbol), url.QueryEscape(rng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", y.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch chart %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chart response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart returned no result for %s", symbol)
	}

	quote := chart.Chart.Result[0].Indicators.Quote[0]
	closes := make([]float64, 0, len(quote.Close))
	for _, c := range quote.Close {
		if c == nil {
			continue
		}
		closes = append(closes, *c)
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("yahoo chart returned no closes for %s", symbol)
	}

	y.logger.Debug().Str("symbol", symbol).Str("range", rng).Int("closes", len(closes)).Msg("close series fetched")
	return closes, nil
}

var _ PriceHistoryFetcher = (*Yahoo)(nil)
