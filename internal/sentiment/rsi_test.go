package sentiment

import (
	"errors"
	"testing"
)

func monotonic(start, step float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}
	return closes
}

func TestRSIInsufficientData(t *testing.T) {
	if _, err := RSI(nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("empty series: err = %v", err)
	}
	if _, err := RSI(monotonic(100, 1, 14)); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("14 closes: err = %v", err)
	}
	if _, err := RSI(monotonic(100, 1, 15)); err != nil {
		t.Fatalf("15 closes should suffice: %v", err)
	}
}

func TestRSIAllGains(t *testing.T) {
	// Monotonically rising closes mean zero losses; RS is infinite and the
	// division-by-zero case must resolve to 100.
	got, err := RSI(monotonic(100, 1, 40))
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Errorf("RSI of rising series = %d, want 100", got)
	}
}

func TestRSIAllLosses(t *testing.T) {
	got, err := RSI(monotonic(100, -1, 40))
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("RSI of falling series = %d, want 0", got)
	}
}

func TestRSIBalancedWindow(t *testing.T) {
	// Alternating +1/-1 deltas give equal average gain and loss, so RS = 1
	// and RSI = 50.
	closes := make([]float64, 15)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 1
		} else {
			closes[i] = closes[i-1] - 1
		}
	}
	got, err := RSI(closes)
	if err != nil {
		t.Fatal(err)
	}
	if got != 50 {
		t.Errorf("RSI of balanced series = %d, want 50", got)
	}
}

func TestRSIIdempotent(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46, 45.9, 46.3, 46.2, 46.4, 46.2, 46.1}
	first, err := RSI(closes)
	if err != nil {
		t.Fatal(err)
	}
	second, err := RSI(closes)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("RSI not idempotent: %d vs %d", first, second)
	}
}

func TestRSIIgnoresHistoryBeyondWindow(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46, 45.9, 46.3, 46.2, 46.4, 46.2, 46.1}
	base, err := RSI(closes)
	if err != nil {
		t.Fatal(err)
	}

	// Flat prices prepended before the trailing window contribute no gains
	// or losses and must not change the result.
	extended := make([]float64, 0, len(closes)+20)
	for i := 0; i < 20; i++ {
		extended = append(extended, closes[0])
	}
	extended = append(extended, closes...)

	got, err := RSI(extended)
	if err != nil {
		t.Fatal(err)
	}
	if got != base {
		t.Errorf("RSI changed after extending history: %d vs %d", got, base)
	}
}
