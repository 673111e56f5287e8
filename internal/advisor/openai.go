package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const chatCompletionsPath = "/v1/chat/completions"

// OpenAIOptions parameterise the chat-completions client.
type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAI calls an OpenAI-compatible chat-completions endpoint.
type OpenAI struct {
	opts    OpenAIOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewOpenAI constructs an advisor client.
func NewOpenAI(opts OpenAIOptions, logger zerolog.Logger) *OpenAI {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}

	return &OpenAI{
		opts:    opts,
		logger:  logger.With().Str("component", "advisor").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Advise sends the prompt and returns the trimmed completion text.
func (o *OpenAI) Advise(ctx context.Context, prompt string) (string, error) {
	if o.opts.APIKey == "" {
		return "", errors.New("advisor api key not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model:    o.opts.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	endpoint := o.baseURL + chatCompletionsPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.opts.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read advisor response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("decode advisor response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("advisor api error (%d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("advisor api error (%d)", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("advisor returned no choices")
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("advisor returned empty text")
	}

	o.logger.Debug().Int("chars", len(text)).Msg("advice generated")
	return text, nil
}

var _ Advisor = (*OpenAI)(nil)
