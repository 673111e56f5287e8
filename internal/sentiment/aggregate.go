package sentiment

import (
	"fmt"
	"strings"
)

// MarketKey identifies one of the monitored markets.
type MarketKey string

const (
	MarketCrypto MarketKey = "crypto"
	MarketUS     MarketKey = "us"
	MarketTW     MarketKey = "tw"
)

// Market describes a monitored market for classification and display.
type Market struct {
	Key   MarketKey
	Label string
	IsRSI bool
}

// DefaultMarkets returns the three monitored markets in their canonical
// report order: crypto, US equities, TW equities. twTicker names the Taiwan
// proxy instrument in the label.
func DefaultMarkets(twTicker string) []Market {
	tw := strings.TrimSuffix(twTicker, ".TW")
	if tw == "" {
		tw = "0050"
	}
	return []Market{
		{Key: MarketCrypto, Label: "₿ 加密貨幣"},
		{Key: MarketUS, Label: "🇺🇸 美股"},
		{Key: MarketTW, Label: fmt.Sprintf("🇹🇼 台股(%s)", tw), IsRSI: true},
	}
}

// Reading pairs a market with its (possibly absent) indicator for one run.
type Reading struct {
	Market Market
	Value  Indicator
}

// Report is the classified result for a market whose reading was present.
type Report struct {
	Market    Market
	Value     int
	Class     Classification
	Triggered bool
}

// Describe renders the market block line, e.g. "₿ 加密貨幣: 20 (極度恐懼 🔴)".
func (r Report) Describe() string {
	return fmt.Sprintf("%s: %d (%s %s)",
		r.Market.Label, r.Value, r.Class.StatusText(r.Market.IsRSI), r.Class.StatusEmoji())
}

// RunResult aggregates all classified market reports for a single run.
type RunResult struct {
	Reports   []Report
	Triggered bool
}

// Triggers returns the reports that crossed the fear threshold, preserving
// the input market order.
func (r RunResult) Triggers() []Report {
	var out []Report
	for _, rep := range r.Reports {
		if rep.Triggered {
			out = append(out, rep)
		}
	}
	return out
}

// TriggerLines renders the trigger descriptions in order.
func (r RunResult) TriggerLines() []string {
	var out []string
	for _, rep := range r.Triggers() {
		out = append(out, rep.Describe())
	}
	return out
}

// Aggregate classifies each present reading and derives the overall trigger
// flag. Absent readings are skipped silently; callers pass readings in the
// canonical market order and that order is preserved.
func Aggregate(readings []Reading) RunResult {
	result := RunResult{}
	for _, rd := range readings {
		v, ok := rd.Value.Value()
		if !ok {
			continue
		}
		class := Classify(v)
		rep := Report{
			Market:    rd.Market,
			Value:     v,
			Class:     class,
			Triggered: class.Triggers(),
		}
		if rep.Triggered {
			result.Triggered = true
		}
		result.Reports = append(result.Reports, rep)
	}
	return result
}
