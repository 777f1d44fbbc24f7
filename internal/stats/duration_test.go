package stats

import (
	"testing"
	"time"

	"chatstat/internal/models"
)

func timed(at time.Time, text string, isUser bool) TimedMessage {
	return TimedMessage{At: at, Msg: models.Message{Text: text, IsUser: isUser}}
}

func TestDayMinutes_SessionSplit(t *testing.T) {
	// Three short messages two minutes apart, a 40 minute gap, then one
	// more. Both sessions land below a minute of estimated effort, so
	// each is floored to 1 minute: the day totals 2.
	base := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.Local)
	msgs := []TimedMessage{
		timed(base, "hi", true),
		timed(base.Add(2*time.Minute), "ok", true),
		timed(base.Add(4*time.Minute), "yes", true),
		timed(base.Add(44*time.Minute), "back", true),
	}

	if got := dayMinutes(msgs); got != 2 {
		t.Errorf("expected 2 minutes from two floored sessions, got %d", got)
	}
}

func TestDayMinutes_GapAtThresholdKeepsSession(t *testing.T) {
	// Exactly 30 minutes does not close the session; only gaps above
	// the threshold do.
	base := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.Local)
	msgs := []TimedMessage{
		timed(base, "hi", true),
		timed(base.Add(30*time.Minute), "still here", true),
	}

	if got := dayMinutes(msgs); got != 1 {
		t.Errorf("expected a single floored session of 1 minute, got %d", got)
	}
}

func TestDayMinutes_UnsortedInput(t *testing.T) {
	base := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.Local)
	ordered := []TimedMessage{
		timed(base, "a", true),
		timed(base.Add(2*time.Minute), "b", true),
		timed(base.Add(45*time.Minute), "c", true),
	}
	shuffled := []TimedMessage{ordered[2], ordered[0], ordered[1]}

	if a, b := dayMinutes(ordered), dayMinutes(shuffled); a != b {
		t.Errorf("order must not matter: %d vs %d", a, b)
	}
}

func TestMessageMinutes_Floors(t *testing.T) {
	tests := []struct {
		name string
		msg  models.Message
		want float64
	}{
		{"short user message floors at 0.25", models.Message{Text: "hi", IsUser: true}, 0.25},
		{"short ai message floors at 0.1", models.Message{Text: "hi"}, 0.1},
		{"empty text costs a flat 0.5", models.Message{Text: ""}, 0.5},
		{"empty user text costs a flat 0.5", models.Message{Text: "", IsUser: true}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := messageMinutes(tt.msg); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMessageMinutes_TypingVsReadingSpeed(t *testing.T) {
	text := ""
	for i := 0; i < 400; i++ {
		text += "a"
	}

	user := messageMinutes(models.Message{Text: text, IsUser: true})
	ai := messageMinutes(models.Message{Text: text})

	if user != 2.0 { // 400/200
		t.Errorf("expected user typing cost 2.0, got %v", user)
	}
	if ai != 0.5 { // 400/800
		t.Errorf("expected ai reading cost 0.5, got %v", ai)
	}
}

func TestDailyDurations_EmptyDayIgnored(t *testing.T) {
	byDay := map[string][]TimedMessage{
		"2024-03-01": nil,
	}
	got := DailyDurations(byDay)
	if got["2024-03-01"] != 0 {
		t.Errorf("expected 0 for empty day, got %d", got["2024-03-01"])
	}
}
