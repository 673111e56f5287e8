package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chartPayload(closes []any) map[string]any {
	timestamps := make([]int64, len(closes))
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC).Unix()
	for i := range timestamps {
		timestamps[i] = base + int64(i)*86400
	}
	return map[string]any{
		"chart": map[string]any{
			"result": []map[string]any{
				{
					"timestamp": timestamps,
					"indicators": map[string]any{
						"quote": []map[string]any{{"close": closes}},
					},
				},
			},
		},
	}
}

func TestYahooFetchDailyCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/0050.TW" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("range") != "3mo" {
			t.Fatalf("range = %q, want 3mo", r.URL.Query().Get("range"))
		}
		// Second bar is a holiday null and must be dropped.
		_ = json.NewEncoder(w).Encode(chartPayload([]any{50.1, nil, 50.8, 51.2}))
	}))
	defer srv.Close()

	f := NewYahoo(YahooOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	closes, err := f.FetchDailyCloses(context.Background(), "0050.TW", "3mo")
	if err != nil {
		t.Fatalf("fetch should succeed: %v", err)
	}
	want := []float64{50.1, 50.8, 51.2}
	if len(closes) != len(want) {
		t.Fatalf("got %d closes, want %d", len(closes), len(want))
	}
	for i := range want {
		if closes[i] != want[i] {
			t.Errorf("close[%d] = %v, want %v", i, closes[i], want[i])
		}
	}
}

func TestYahooFetchPriceStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("range") != "1y" {
			t.Fatalf("stats should request 1y range, got %q", r.URL.Query().Get("range"))
		}
		_ = json.NewEncoder(w).Encode(chartPayload([]any{43.8, 55.1, 48.0, 51.2}))
	}))
	defer srv.Close()

	f := NewYahoo(YahooOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	stats, err := f.FetchPriceStats(context.Background(), "0050.TW")
	if err != nil {
		t.Fatalf("fetch should succeed: %v", err)
	}
	if stats.Current.StringFixed(2) != "51.20" {
		t.Errorf("current = %s", stats.Current)
	}
	if stats.High52w.StringFixed(2) != "55.10" {
		t.Errorf("high = %s", stats.High52w)
	}
	if stats.Low52w.StringFixed(2) != "43.80" {
		t.Errorf("low = %s", stats.Low52w)
	}
}

func TestYahooFetchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"chart": map[string]any{
				"result": nil,
				"error":  map[string]string{"code": "Not Found", "description": "No data found"},
			},
		})
	}))
	defer srv.Close()

	f := NewYahoo(YahooOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := f.FetchDailyCloses(context.Background(), "BOGUS", "3mo"); err == nil {
		t.Fatal("API error payload should return an error")
	}
}

func TestYahooFetchAllNullCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chartPayload([]any{nil, nil}))
	}))
	defer srv.Close()

	f := NewYahoo(YahooOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := f.FetchDailyCloses(context.Background(), "0050.TW", "3mo"); err == nil {
		t.Fatal("series of nulls should return an error")
	}
}
