package app

import (
	"testing"
	"time"

	"github.com/kenkkoko/SmartDCA-BOT/internal/storage"
)

func intPtr(v int) *int { return &v }

func TestDownsampleRunsKeepsEndpoints(t *testing.T) {
	runs := make([]storage.RunRecord, 100)
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := range runs {
		runs[i] = storage.RunRecord{RunTS: base.AddDate(0, 0, i)}
	}

	got := downsampleRuns(runs, 10)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}
	if !got[0].RunTS.Equal(runs[0].RunTS) {
		t.Errorf("first point = %v, want %v", got[0].RunTS, runs[0].RunTS)
	}
	if !got[len(got)-1].RunTS.Equal(runs[len(runs)-1].RunTS) {
		t.Errorf("last point = %v, want %v", got[len(got)-1].RunTS, runs[len(runs)-1].RunTS)
	}
}

func TestDownsampleRunsNoopWhenSmall(t *testing.T) {
	runs := []storage.RunRecord{{}, {}, {}}
	if got := downsampleRuns(runs, 10); len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestIndicatorSeriesSkipsNulls(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	runs := []storage.RunRecord{
		{RunTS: base, CryptoIndex: intPtr(20)},
		{RunTS: base.AddDate(0, 0, 1)},
		{RunTS: base.AddDate(0, 0, 2), CryptoIndex: intPtr(35)},
	}

	series, ok := indicatorSeries("Crypto F&G", runs, func(r storage.RunRecord) *int { return r.CryptoIndex })
	if !ok {
		t.Fatal("two non-null points should be chartable")
	}
	if len(series.XValues) != 2 || series.YValues[1] != 35 {
		t.Errorf("series = %v / %v", series.XValues, series.YValues)
	}
}

func TestIndicatorSeriesTooSparse(t *testing.T) {
	runs := []storage.RunRecord{
		{RunTS: time.Now(), USIndex: intPtr(50)},
		{RunTS: time.Now()},
	}
	if _, ok := indicatorSeries("US F&G", runs, func(r storage.RunRecord) *int { return r.USIndex }); ok {
		t.Fatal("a single point must not produce a series")
	}
}
