package notify

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

const (
	pushPath      = "/v2/bot/message/push"
	broadcastPath = "/v2/bot/message/broadcast"
)

// LineOptions parameterise the LINE Messaging API notifier.
type LineOptions struct {
	ChannelToken string
	RecipientID  string
	Broadcast    bool
	APIBase      string
	Timeout      time.Duration
}

// LineNotifier pushes text messages through the LINE Messaging API, either
// to a single named recipient or as a broadcast to all channel subscribers.
type LineNotifier struct {
	opts    LineOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewLineNotifier constructs a LINE notifier.
func NewLineNotifier(opts LineOptions, logger zerolog.Logger) *LineNotifier {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.APIBase, "/")
	if baseURL == "" {
		baseURL = "https://api.line.me"
	}

	return &LineNotifier{
		opts:    opts,
		logger:  logger.With().Str("component", "line_notifier").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type pushRequest struct {
	To       string        `json:"to,omitempty"`
	Messages []textMessage `json:"messages"`
}

// Notify delivers the message. Push mode requires a recipient id; broadcast
// mode sends to every subscriber of the channel.
func (n *LineNotifier) Notify(ctx context.Context, text string) error {
	if n.opts.ChannelToken == "" {
		return errors.New("line channel access token not configured")
	}

	payload := pushRequest{Messages: []textMessage{{Type: "text", Text: text}}}
	path := broadcastPath
	if !n.opts.Broadcast {
		if n.opts.RecipientID == "" {
			return errors.New("line recipient id not configured")
		}
		payload.To = n.opts.RecipientID
		path = pushPath
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal line payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create line request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.opts.ChannelToken)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send line request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("line api status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	mode := "push"
	if n.opts.Broadcast {
		mode = "broadcast"
	}
	n.logger.Info().Str("mode", mode).Int("chars", len(text)).Msg("通知已送出 (LINE)")
	return nil
}

var _ Notifier = (*LineNotifier)(nil)
