package sentiment

import (
	"strings"
	"testing"
)

func readings(crypto, us, tw Indicator) []Reading {
	markets := DefaultMarkets("0050.TW")
	return []Reading{
		{Market: markets[0], Value: crypto},
		{Market: markets[1], Value: us},
		{Market: markets[2], Value: tw},
	}
}

func TestAggregateSingleTrigger(t *testing.T) {
	result := Aggregate(readings(IndicatorOf(10), IndicatorOf(50), IndicatorOf(90)))

	if !result.Triggered {
		t.Fatal("expected triggered run")
	}
	triggers := result.Triggers()
	if len(triggers) != 1 {
		t.Fatalf("expected 1 trigger, got %d", len(triggers))
	}
	if triggers[0].Market.Key != MarketCrypto {
		t.Errorf("expected crypto trigger, got %s", triggers[0].Market.Key)
	}
	if triggers[0].Class != ExtremeFear {
		t.Errorf("expected extreme fear, got %v", triggers[0].Class)
	}
}

func TestAggregateNoTriggers(t *testing.T) {
	result := Aggregate(readings(IndicatorOf(90), IndicatorOf(90), IndicatorOf(90)))

	if result.Triggered {
		t.Fatal("expected no trigger")
	}
	if len(result.Triggers()) != 0 {
		t.Fatalf("trigger list should be empty, got %d entries", len(result.Triggers()))
	}
	if len(result.Reports) != 3 {
		t.Fatalf("all present markets should be reported, got %d", len(result.Reports))
	}
}

func TestAggregateFixedOrder(t *testing.T) {
	// All three trigger; descriptions must come out crypto → US → TW.
	result := Aggregate(readings(IndicatorOf(30), IndicatorOf(20), IndicatorOf(40)))

	lines := result.TriggerLines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 triggers, got %d", len(lines))
	}
	wantOrder := []MarketKey{MarketCrypto, MarketUS, MarketTW}
	for i, trig := range result.Triggers() {
		if trig.Market.Key != wantOrder[i] {
			t.Errorf("trigger %d: got %s, want %s", i, trig.Market.Key, wantOrder[i])
		}
	}
}

func TestAggregateSkipsAbsentMarkets(t *testing.T) {
	result := Aggregate(readings(NoIndicator(), IndicatorOf(30), NoIndicator()))

	if len(result.Reports) != 1 {
		t.Fatalf("absent markets must be skipped, got %d reports", len(result.Reports))
	}
	if !result.Triggered {
		t.Fatal("present fear reading should still trigger")
	}
	if result.Reports[0].Market.Key != MarketUS {
		t.Errorf("surviving report should be US, got %s", result.Reports[0].Market.Key)
	}
}

func TestAggregateEndToEndScenario(t *testing.T) {
	// crypto=20 extreme fear, US=60 calm, TW RSI=30 fear → two triggers and
	// the TW entry carries the RSI-specific label.
	result := Aggregate(readings(IndicatorOf(20), IndicatorOf(60), IndicatorOf(30)))

	triggers := result.Triggers()
	if len(triggers) != 2 {
		t.Fatalf("expected 2 triggers, got %d", len(triggers))
	}
	if !result.Triggered {
		t.Fatal("run should be triggered")
	}

	lines := result.TriggerLines()
	if !strings.Contains(lines[0], "極度恐懼") {
		t.Errorf("crypto line missing extreme fear label: %q", lines[0])
	}
	if !strings.Contains(lines[1], "RSI偏低") {
		t.Errorf("TW line should use RSI label: %q", lines[1])
	}
	if strings.Contains(lines[1], "恐懼 ") {
		t.Errorf("TW line must not use the generic fear label: %q", lines[1])
	}
}

func TestDescribeFormat(t *testing.T) {
	markets := DefaultMarkets("0050.TW")
	rep := Report{Market: markets[0], Value: 20, Class: Classify(20), Triggered: true}
	want := "₿ 加密貨幣: 20 (極度恐懼 🔴)"
	if got := rep.Describe(); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestDefaultMarketsTickerLabel(t *testing.T) {
	markets := DefaultMarkets("0056.TW")
	if markets[2].Label != "🇹🇼 台股(0056)" {
		t.Errorf("TW label = %q", markets[2].Label)
	}
	if !markets[2].IsRSI {
		t.Error("TW market should be RSI sourced")
	}
}
