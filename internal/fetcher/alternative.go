package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const fngPath = "/fng/"

// AlternativeOptions parameterise the alternative.me fetcher.
type AlternativeOptions struct {
	BaseURL string
	Timeout time.Duration
}

// Alternative fetches the crypto Fear & Greed index from alternative.me.
type Alternative struct {
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewAlternative constructs a crypto sentiment fetcher.
func NewAlternative(opts AlternativeOptions, logger zerolog.Logger) *Alternative {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.alternative.me"
	}

	return &Alternative{
		logger:  logger.With().Str("component", "crypto_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// fngResponse is the alternative.me payload. The index value arrives as a
// JSON string.
type fngResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
	} `json:"data"`
}

// FetchCryptoIndex retrieves the latest crypto Fear & Greed value.
func (a *Alternative) FetchCryptoIndex(ctx context.Context) (int, error) {
	endpoint := a.baseURL + fngPath + "?limit=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch crypto index: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read crypto index response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("alternative.me status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload fngResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode crypto index: %w", err)
	}
	if len(payload.Data) == 0 {
		return 0, errors.New("alternative.me returned no data points")
	}

	value, err := strconv.Atoi(strings.TrimSpace(payload.Data[0].Value))
	if err != nil {
		return 0, fmt.Errorf("parse crypto index value %q: %w", payload.Data[0].Value, err)
	}

	a.logger.Debug().Int("value", value).Str("classification", payload.Data[0].Classification).Msg("crypto index fetched")
	return value, nil
}

var _ CryptoSentimentFetcher = (*Alternative)(nil)
