package models

import (
	"fmt"
	"time"
)

// DayKeyLayout is the calendar-day key format used by every day-bucketed
// mapping. Keys are always computed from local-time components so that
// day boundaries match what the user sees.
const DayKeyLayout = "2006-01-02"

// DayKey returns the calendar-day key for an instant in local time.
func DayKey(t time.Time) string {
	return t.In(time.Local).Format(DayKeyLayout)
}

// DateRange is an optional inclusive filter over calendar-day keys.
// An empty Start or End means unbounded on that side.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// IsZero reports whether the range is unbounded on both sides.
func (r DateRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}

// Validate reports a user-input error when both bounds are set and start
// is after end. Day keys compare lexicographically.
func (r DateRange) Validate() error {
	if r.Start != "" && r.End != "" && r.Start > r.End {
		return fmt.Errorf("invalid date range: start %s is after end %s", r.Start, r.End)
	}
	return nil
}

// Suffix returns the cache-key suffix for the range. Unbounded ranges
// produce no suffix so an unfiltered snapshot keys on the subject alone.
func (r DateRange) Suffix() string {
	if r.IsZero() {
		return ""
	}
	return "_" + r.Start + "_" + r.End
}

// StartTime returns the local start-of-day instant of the lower bound.
func (r DateRange) StartTime() (time.Time, bool) {
	if r.Start == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DayKeyLayout, r.Start, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// EndTime returns the local end-of-day instant (23:59:59.999) of the
// upper bound. The instant is built from calendar components rather than
// a 24h offset so DST-shifted days keep their bound inside the day.
func (r DateRange) EndTime() (time.Time, bool) {
	if r.End == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DayKeyLayout, r.End, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.Local), true
}

// Snapshot is the result of one aggregation pass over a set of chats.
// It is created fresh by each call and never mutated afterwards, except
// for the Range/Bounds metadata the statistics service attaches for the
// renderer.
type Snapshot struct {
	TotalChats           int     `json:"totalChats"`
	TotalMessages        int     `json:"totalMessages"`
	UserMessages         int     `json:"userMessages"`
	AIMessages           int     `json:"aiMessages"`
	UserChars            int     `json:"userChars"`
	AIChars              int     `json:"aiChars"`
	AvgMessagesPerChat   int     `json:"avgMessagesPerChat"`
	MaxMessagesInOneChat int     `json:"maxMessagesInOneChat"`
	AIUserRatio          float64 `json:"aiUserRatio"`
	FirstActiveDay       string  `json:"firstActiveDay,omitempty"`
	LastActiveDay        string  `json:"lastActiveDay,omitempty"`
	DaysActive           int     `json:"daysActive"`
	TotalDurationMin     int     `json:"totalDurationMin"`
	UserTokens           int     `json:"userTokens"`
	AITokens             int     `json:"aiTokens"`

	ModelUsage     map[string]int `json:"modelUsage"`
	DailyActivity  map[string]int `json:"dailyActivity"`
	DailyFiles     map[string]int `json:"dailyFiles"`
	DailyDuration  map[string]int `json:"dailyDuration"`
	HourlyActivity [24]int        `json:"hourlyActivity"`
	CharacterUsage map[string]int `json:"characterUsage"`

	// Attached for the renderer so it can reconstruct which filter
	// produced this snapshot.
	Range  DateRange `json:"range"`
	Bounds DateRange `json:"bounds"`
}

// NewSnapshot returns an all-zero snapshot with initialized mappings.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		ModelUsage:     make(map[string]int),
		DailyActivity:  make(map[string]int),
		DailyFiles:     make(map[string]int),
		DailyDuration:  make(map[string]int),
		CharacterUsage: make(map[string]int),
	}
}

// CacheEntry is one cached aggregation result, keyed by subject and
// range. Entries are overwritten on forced refresh and never evicted
// automatically.
type CacheEntry struct {
	Snapshot   *Snapshot `json:"snapshot"`
	Range      DateRange `json:"range"`
	Bounds     DateRange `json:"bounds"`
	ComputedAt time.Time `json:"computedAt"`
}
