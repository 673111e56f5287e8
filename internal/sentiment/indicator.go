package sentiment

// Indicator is a single market sentiment reading in [0,100]. A reading may
// be absent when the upstream fetch failed; callers must check Present
// before using the value.
type Indicator struct {
	value   int
	present bool
}

// IndicatorOf wraps a fetched value.
func IndicatorOf(v int) Indicator {
	return Indicator{value: v, present: true}
}

// NoIndicator marks a market whose fetch failed.
func NoIndicator() Indicator {
	return Indicator{}
}

// Value returns the reading and whether it is present.
func (i Indicator) Value() (int, bool) {
	return i.value, i.present
}

// Present reports whether the reading is available.
func (i Indicator) Present() bool {
	return i.present
}
