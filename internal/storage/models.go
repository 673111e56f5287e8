package storage

import "time"

// RunRecord is one persisted signal evaluation. Indicator columns are
// pointers because a market degrades to NULL when its fetch failed.
type RunRecord struct {
	ID           int64
	RunTS        time.Time
	CryptoIndex  *int
	USIndex      *int
	TWRSI        *int
	Triggered    bool
	TriggerCount int
	Delivered    bool
	Message      string
	Advice       string
	CreatedAt    time.Time
}
