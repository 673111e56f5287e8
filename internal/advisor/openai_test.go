package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestOpenAIAdviseSuccess(t *testing.T) {
	var gotAuth string
	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  分三批進場，優先台股。\n"}},
			},
		})
	}))
	defer srv.Close()

	a := NewOpenAI(OpenAIOptions{APIKey: "key", Model: "gpt-4o-mini", BaseURL: srv.URL, Timeout: time.Second}, testLogger())
	text, err := a.Advise(context.Background(), "市場恐慌")
	if err != nil {
		t.Fatalf("advise should succeed: %v", err)
	}
	if text != "分三批進場，優先台股。" {
		t.Errorf("advice should be trimmed, got %q", text)
	}
	if gotAuth != "Bearer key" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if gotReq["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", gotReq["model"])
	}
}

func TestOpenAIAdviseMissingKey(t *testing.T) {
	a := NewOpenAI(OpenAIOptions{}, testLogger())
	if _, err := a.Advise(context.Background(), "prompt"); err == nil {
		t.Fatal("missing api key should return an error")
	}
}

func TestOpenAIAdviseAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited", "type": "requests"},
		})
	}))
	defer srv.Close()

	a := NewOpenAI(OpenAIOptions{APIKey: "key", BaseURL: srv.URL, Timeout: time.Second}, testLogger())
	if _, err := a.Advise(context.Background(), "prompt"); err == nil {
		t.Fatal("HTTP 429 should return an error")
	}
}

func TestOpenAIAdviseEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	a := NewOpenAI(OpenAIOptions{APIKey: "key", BaseURL: srv.URL, Timeout: time.Second}, testLogger())
	if _, err := a.Advise(context.Background(), "prompt"); err == nil {
		t.Fatal("empty choices should return an error")
	}
}
