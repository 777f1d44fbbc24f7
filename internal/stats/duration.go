package stats

import (
	"math"
	"sort"
	"time"

	"chatstat/internal/models"
)

// sessionGap is the idle gap between consecutive messages that closes
// the current session.
const sessionGap = 30 * time.Minute

// Per-message interaction cost floors, in minutes.
const (
	minUserMessageMin = 0.25
	minAIMessageMin   = 0.1
	emptyMessageMin   = 0.5
)

// Characters per minute: typing speed for user turns, reading speed for
// AI turns.
const (
	userCJKCharsPerMin   = 60.0
	userOtherCharsPerMin = 200.0
	aiCJKCharsPerMin     = 400.0
	aiOtherCharsPerMin   = 800.0
)

// TimedMessage pairs a message with its parsed instant.
type TimedMessage struct {
	At  time.Time
	Msg models.Message
}

// messageMinutes estimates engaged minutes for a single message.
func messageMinutes(m models.Message) float64 {
	if m.Text == "" {
		return emptyMessageMin
	}
	cjk, other := countScripts(m.Text)
	if m.IsUser {
		return math.Max(minUserMessageMin,
			float64(cjk)/userCJKCharsPerMin+float64(other)/userOtherCharsPerMin)
	}
	return math.Max(minAIMessageMin,
		float64(cjk)/aiCJKCharsPerMin+float64(other)/aiOtherCharsPerMin)
}

// DailyDurations converts messages grouped by local calendar day into
// estimated engaged minutes per day. This models engaged time rather
// than wall-clock time: idle gaps above sessionGap close the running
// session, and each closed session contributes at least one minute.
func DailyDurations(byDay map[string][]TimedMessage) map[string]int {
	result := make(map[string]int, len(byDay))
	for day, msgs := range byDay {
		result[day] = dayMinutes(msgs)
	}
	return result
}

// dayMinutes walks one day's messages in time order, committing a
// session whenever the gap to the next message exceeds sessionGap, and
// commits the final open session after the last message.
func dayMinutes(msgs []TimedMessage) int {
	if len(msgs) == 0 {
		return 0
	}

	sorted := make([]TimedMessage, len(msgs))
	copy(sorted, msgs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})

	total := 0.0
	session := 0.0
	prev := sorted[0].At
	for i, tm := range sorted {
		if i > 0 && tm.At.Sub(prev) > sessionGap {
			total += math.Max(1, session)
			session = 0
		}
		session += messageMinutes(tm.Msg)
		prev = tm.At
	}
	total += math.Max(1, session)

	return int(math.Round(total))
}
