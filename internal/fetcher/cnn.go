package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const graphDataPath = "/index/fearandgreed/graphdata"

// browserUserAgent is required: the endpoint rejects non-browser clients.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// CNNOptions parameterise the CNN Fear & Greed fetcher.
type CNNOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// CNN fetches the US equity Fear & Greed score from CNN's dataviz endpoint.
type CNN struct {
	logger    zerolog.Logger
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewCNN constructs a US equity sentiment fetcher.
func NewCNN(opts CNNOptions, logger zerolog.Logger) *CNN {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://production.dataviz.cnn.io"
	}

	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = browserUserAgent
	}

	return &CNN{
		logger:    logger.With().Str("component", "us_fetcher").Logger(),
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

type graphDataResponse struct {
	FearAndGreed struct {
		Score  float64 `json:"score"`
		Rating string  `json:"rating"`
	} `json:"fear_and_greed"`
}

// FetchEquityIndex retrieves the current US Fear & Greed score, rounded to
// the nearest integer.
func (c *CNN) FetchEquityIndex(ctx context.Context) (int, error) {
	endpoint := c.baseURL + graphDataPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch equity index: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read equity index response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("cnn dataviz status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload graphDataResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode equity index: %w", err)
	}
	if payload.FearAndGreed.Score == 0 && payload.FearAndGreed.Rating == "" {
		return 0, fmt.Errorf("cnn dataviz response missing fear_and_greed score")
	}

	score := int(math.Round(payload.FearAndGreed.Score))
	c.logger.Debug().Int("score", score).Str("rating", payload.FearAndGreed.Rating).Msg("equity index fetched")
	return score, nil
}

var _ EquitySentimentFetcher = (*CNN)(nil)
