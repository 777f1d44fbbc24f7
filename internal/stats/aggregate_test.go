package stats

import (
	"reflect"
	"testing"

	"chatstat/internal/models"
)

func fixtureChats() []models.Chat {
	return []models.Chat{
		{
			FileName:      "alice-1.jsonl",
			CharacterName: "Alice",
			Messages: []models.Message{
				{Text: "hello there", IsUser: true, SendDate: "2024-03-01 10:00"},
				{Text: "hi, how can I help?", SendDate: "2024-03-01 10:01", Model: "gpt-4"},
				{Text: "tell me a story", IsUser: true, SendDate: "2024-03-01 10:03"},
				{Text: "once upon a time", SendDate: "2024-03-01 10:04", Model: "gpt-4"},
			},
		},
		{
			FileName:      "bob-1.jsonl",
			CharacterName: "Bob",
			Messages: []models.Message{
				{Text: "good morning", IsUser: true, SendDate: "2024-03-02 09:00"},
				{Text: "morning!", SendDate: "2024-03-02 09:01", Model: "claude-3"},
			},
		},
	}
}

func TestAggregate_Empty(t *testing.T) {
	snap := Aggregate(nil, models.DateRange{})

	if snap.TotalMessages != 0 || snap.TotalChats != 0 {
		t.Errorf("expected zero counters, got %d messages / %d chats", snap.TotalMessages, snap.TotalChats)
	}
	if snap.AvgMessagesPerChat != 0 {
		t.Errorf("expected avg 0, got %d", snap.AvgMessagesPerChat)
	}
	if len(snap.DailyActivity) != 0 || len(snap.ModelUsage) != 0 || len(snap.CharacterUsage) != 0 {
		t.Error("expected empty mappings")
	}
	if snap.DaysActive != 0 || snap.FirstActiveDay != "" {
		t.Errorf("expected no active span, got %d days from %q", snap.DaysActive, snap.FirstActiveDay)
	}
}

func TestAggregate_TwoChatsNoRange(t *testing.T) {
	snap := Aggregate(fixtureChats(), models.DateRange{})

	if snap.TotalMessages != 6 {
		t.Fatalf("expected 6 messages, got %d", snap.TotalMessages)
	}
	if snap.TotalChats != 2 {
		t.Errorf("expected 2 chats, got %d", snap.TotalChats)
	}
	if snap.UserMessages != 3 || snap.AIMessages != 3 {
		t.Errorf("expected 3/3 role split, got %d/%d", snap.UserMessages, snap.AIMessages)
	}

	if len(snap.DailyActivity) != 2 {
		t.Fatalf("expected 2 daily keys, got %v", snap.DailyActivity)
	}
	daySum := 0
	for _, n := range snap.DailyActivity {
		daySum += n
	}
	if daySum != snap.TotalMessages {
		t.Errorf("daily activity sums to %d, want %d", daySum, snap.TotalMessages)
	}

	hourSum := 0
	for _, n := range snap.HourlyActivity {
		hourSum += n
	}
	if hourSum != snap.TotalMessages {
		t.Errorf("hourly activity sums to %d, want %d", hourSum, snap.TotalMessages)
	}

	if snap.FirstActiveDay != "2024-03-01" || snap.LastActiveDay != "2024-03-02" {
		t.Errorf("unexpected active span %q..%q", snap.FirstActiveDay, snap.LastActiveDay)
	}
	if snap.DaysActive != 2 {
		t.Errorf("expected 2 active days, got %d", snap.DaysActive)
	}

	if snap.ModelUsage["gpt-4"] != 2 || snap.ModelUsage["claude-3"] != 1 {
		t.Errorf("unexpected model usage %v", snap.ModelUsage)
	}
	if snap.CharacterUsage["Alice"] != 4 || snap.CharacterUsage["Bob"] != 2 {
		t.Errorf("unexpected character usage %v", snap.CharacterUsage)
	}
	if snap.MaxMessagesInOneChat != 4 {
		t.Errorf("expected max 4 messages in one chat, got %d", snap.MaxMessagesInOneChat)
	}
	if snap.AvgMessagesPerChat != 3 {
		t.Errorf("expected avg 3, got %d", snap.AvgMessagesPerChat)
	}
	if snap.AIUserRatio != 1.0 {
		t.Errorf("expected ratio 1.0, got %v", snap.AIUserRatio)
	}
	if snap.DailyFiles["2024-03-01"] != 1 || snap.DailyFiles["2024-03-02"] != 1 {
		t.Errorf("unexpected daily file counts %v", snap.DailyFiles)
	}
}

func TestAggregate_RangeFilter(t *testing.T) {
	rng := models.DateRange{Start: "2024-03-02", End: "2024-03-02"}
	snap := Aggregate(fixtureChats(), rng)

	if snap.TotalMessages != 2 {
		t.Fatalf("expected day-2 messages only, got %d", snap.TotalMessages)
	}
	if snap.TotalChats != 1 {
		t.Errorf("expected 1 contributing chat, got %d", snap.TotalChats)
	}
	if _, ok := snap.DailyActivity["2024-03-01"]; ok {
		t.Error("day-1 messages must be excluded from every counter")
	}
	if snap.DaysActive != 1 {
		t.Errorf("expected narrowed span of 1 day, got %d", snap.DaysActive)
	}
	if _, ok := snap.CharacterUsage["Alice"]; ok {
		t.Error("chat with no in-range messages must not appear in character stats")
	}
}

func TestAggregate_UnparseableTimestamps(t *testing.T) {
	chats := []models.Chat{
		{
			FileName: "x.jsonl",
			Messages: []models.Message{
				{Text: "no timestamp", IsUser: true},
				{Text: "dated", IsUser: true, SendDate: "2024-03-01 10:00"},
			},
		},
	}

	// Without a range the undated message still counts toward role
	// totals, just not toward day buckets.
	snap := Aggregate(chats, models.DateRange{})
	if snap.TotalMessages != 2 {
		t.Errorf("expected 2 messages without range, got %d", snap.TotalMessages)
	}
	if snap.DailyActivity["2024-03-01"] != 1 {
		t.Errorf("expected 1 dated message in day bucket, got %v", snap.DailyActivity)
	}

	// With an active range the undated message is excluded entirely.
	snap = Aggregate(chats, models.DateRange{Start: "2024-03-01", End: "2024-03-01"})
	if snap.TotalMessages != 1 {
		t.Errorf("expected undated message excluded under range, got %d", snap.TotalMessages)
	}
}

func TestAggregate_RangeEndIsEndOfDay(t *testing.T) {
	chats := []models.Chat{
		{
			FileName: "late.jsonl",
			Messages: []models.Message{
				{Text: "late night", IsUser: true, SendDate: "2024-03-01 23:59"},
			},
		},
	}

	snap := Aggregate(chats, models.DateRange{Start: "2024-03-01", End: "2024-03-01"})
	if snap.TotalMessages != 1 {
		t.Error("range end must cover the whole final day")
	}
}

func TestAggregate_AuthoritativeTokenCounts(t *testing.T) {
	count := 42
	bad := -1
	chats := []models.Chat{
		{
			FileName: "t.jsonl",
			Messages: []models.Message{
				{Text: "answer", SendDate: "2024-03-01 10:00", TokenCount: &count},
				{Text: "aaaa", SendDate: "2024-03-01 10:01", TokenCount: &bad},
			},
		},
	}

	snap := Aggregate(chats, models.DateRange{})
	// 42 authoritative + ceil(4/3.5)=2 estimated for the invalid count.
	if snap.AITokens != 44 {
		t.Errorf("expected 44 ai tokens, got %d", snap.AITokens)
	}
}

func TestAggregate_RatioSentinel(t *testing.T) {
	chats := []models.Chat{
		{
			FileName: "ai-only.jsonl",
			Messages: []models.Message{
				{Text: "unprompted", SendDate: "2024-03-01 10:00"},
			},
		},
	}

	snap := Aggregate(chats, models.DateRange{})
	if snap.AIUserRatio != 0 {
		t.Errorf("expected sentinel ratio 0 with no user messages, got %v", snap.AIUserRatio)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	rng := models.DateRange{Start: "2024-03-01", End: "2024-03-02"}
	a := Aggregate(fixtureChats(), rng)
	b := Aggregate(fixtureChats(), rng)

	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs must produce identical snapshots")
	}
}

func TestBounds(t *testing.T) {
	got := Bounds(fixtureChats())
	want := models.DateRange{Start: "2024-03-01", End: "2024-03-02"}
	if got != want {
		t.Errorf("expected bounds %v, got %v", want, got)
	}
}
