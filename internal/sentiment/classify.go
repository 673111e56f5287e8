package sentiment

// Shared fear thresholds. Inclusive upper bounds, identical for sentiment
// indices and RSI readings.
const (
	ExtremeFearThreshold = 25
	FearThreshold        = 44
)

// Classification is the three-level fear category of an indicator value.
type Classification int

const (
	NeutralOrGreed Classification = iota
	Fear
	ExtremeFear
)

// Classify maps an indicator value to its fear category.
func Classify(v int) Classification {
	switch {
	case v <= ExtremeFearThreshold:
		return ExtremeFear
	case v <= FearThreshold:
		return Fear
	default:
		return NeutralOrGreed
	}
}

// Triggers reports whether the category counts as a buy signal.
func (c Classification) Triggers() bool {
	return c == Fear || c == ExtremeFear
}

// StatusText returns the display label. RSI-sourced readings use a distinct
// Fear label because a low RSI is a momentum proxy, not a literal fear index.
func (c Classification) StatusText(isRSI bool) string {
	switch c {
	case ExtremeFear:
		return "極度恐懼"
	case Fear:
		if isRSI {
			return "RSI偏低"
		}
		return "恐懼"
	default:
		return "安全/貪婪"
	}
}

// StatusEmoji returns the display emoji, identical across sources.
func (c Classification) StatusEmoji() string {
	switch c {
	case ExtremeFear:
		return "🔴"
	case Fear:
		return "🟠"
	default:
		return "🔵"
	}
}
