package stats

import (
	"testing"
	"time"
)

func TestParse_ISO(t *testing.T) {
	got, ok := Parse("2023-05-07T14:30:00Z")
	if !ok {
		t.Fatal("expected ISO timestamp to parse")
	}
	want := time.Date(2023, time.May, 7, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParse_EpochSecondsAndMillis(t *testing.T) {
	secs, ok := Parse("1700000000")
	if !ok {
		t.Fatal("expected 10-digit epoch to parse")
	}
	millis, ok := Parse("1700000000000")
	if !ok {
		t.Fatal("expected 13-digit epoch to parse")
	}
	if !secs.Equal(millis) {
		t.Errorf("second and millisecond epochs must agree: %v vs %v", secs, millis)
	}
	if !secs.Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("unexpected instant %v", secs)
	}
}

func TestParse_LegacyFormat(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2023-5-7 @14h 30m", time.Date(2023, time.May, 7, 14, 30, 0, 0, time.Local)},
		{"2023-05-07 @9h 5m 15s", time.Date(2023, time.May, 7, 9, 5, 15, 0, time.Local)},
		{"2023-5-7 @14h 30m 15s 250ms", time.Date(2023, time.May, 7, 14, 30, 15, 250*int(time.Millisecond), time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			if !ok {
				t.Fatalf("expected %q to parse", tt.raw)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParse_LocalFormat(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2023-05-07 14:30", time.Date(2023, time.May, 7, 14, 30, 0, 0, time.Local)},
		{"2023/05/07 14:30:45", time.Date(2023, time.May, 7, 14, 30, 45, 0, time.Local)},
		{"2023-5-7 8:05", time.Date(2023, time.May, 7, 8, 5, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			if !ok {
				t.Fatalf("expected %q to parse", tt.raw)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParse_HumanFormat(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"May 7, 2023 2:30 pm", time.Date(2023, time.May, 7, 14, 30, 0, 0, time.Local)},
		{"May 7 2023 2:30 am", time.Date(2023, time.May, 7, 2, 30, 0, 0, time.Local)},
		{"December 25, 2022 12:00 am", time.Date(2022, time.December, 25, 0, 0, 0, 0, time.Local)},
		{"December 25, 2022 12:00 pm", time.Date(2022, time.December, 25, 12, 0, 0, 0, time.Local)},
		{"Jun 1, 2024 11:59 PM", time.Date(2024, time.June, 1, 23, 59, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			if !ok {
				t.Fatalf("expected %q to parse", tt.raw)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"not a date",
		"Smarch 5, 2023 2:30 pm",
		"2023-13-07 14:30",
		"2023-02-31 @14h 30m",
		"May 7, 2023 13:30 pm",
		"@14h 30m",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			if got, ok := Parse(raw); ok {
				t.Errorf("expected %q to fail, got %v", raw, got)
			}
		})
	}
}
