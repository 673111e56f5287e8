package fetcher

import (
	"context"

	"github.com/shopspring/decimal"
)

// CryptoSentimentFetcher retrieves the crypto Fear & Greed index (0-100).
type CryptoSentimentFetcher interface {
	FetchCryptoIndex(ctx context.Context) (int, error)
}

// EquitySentimentFetcher retrieves the US equity Fear & Greed score (0-100).
type EquitySentimentFetcher interface {
	FetchEquityIndex(ctx context.Context) (int, error)
}

// PriceStats carries presentational price context for a ticker: the latest
// close plus the trailing 1-year high and low drawn from the same series.
type PriceStats struct {
	Symbol  string
	Current decimal.Decimal
	High52w decimal.Decimal
	Low52w  decimal.Decimal
}

// PriceHistoryFetcher retrieves daily close series and price statistics for
// a ticker symbol.
type PriceHistoryFetcher interface {
	// FetchDailyCloses returns chronological daily closes (oldest first)
	// over the given Yahoo-style range, e.g. "3mo".
	FetchDailyCloses(ctx context.Context, symbol, lookback string) ([]float64, error)
	// FetchPriceStats returns the trailing 1-year price statistics.
	FetchPriceStats(ctx context.Context, symbol string) (PriceStats, error)
}
