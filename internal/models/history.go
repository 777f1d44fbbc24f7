package models

import "time"

// HistoryPoint is one archived aggregation result's headline counters,
// used to chart how a subject's statistics move between refreshes.
type HistoryPoint struct {
	ComputedAt    time.Time
	Subject       string
	TotalMessages int
	TotalChats    int
	DurationMin   int
	AITokens      int
	UserTokens    int
}
