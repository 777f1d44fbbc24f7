package cache

import (
	"testing"
	"time"

	"chatstat/internal/models"
)

func entry() *models.CacheEntry {
	return &models.CacheEntry{
		Snapshot:   models.NewSnapshot(),
		ComputedAt: time.Now(),
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		rng     models.DateRange
		want    string
	}{
		{"no range", "Alice", models.DateRange{}, "Alice"},
		{"full range", "Alice", models.DateRange{Start: "2024-03-01", End: "2024-03-02"}, "Alice_2024-03-01_2024-03-02"},
		{"start only", "Alice", models.DateRange{Start: "2024-03-01"}, "Alice_2024-03-01_"},
		{"all subjects", models.SubjectAll, models.DateRange{}, models.SubjectAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.subject, tt.rng); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestStore_GetPut(t *testing.T) {
	s := New()

	if _, ok := s.Get("Alice"); ok {
		t.Error("expected miss on empty store")
	}

	e := entry()
	s.Put("Alice", e)

	got, ok := s.Get("Alice")
	if !ok || got != e {
		t.Error("expected the stored entry back")
	}

	// Forced refresh overwrites.
	e2 := entry()
	s.Put("Alice", e2)
	if got, _ := s.Get("Alice"); got != e2 {
		t.Error("expected overwrite on second put")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
}

func TestStore_InvalidateSubject(t *testing.T) {
	s := New()
	s.Put("Alice", entry())
	s.Put("Alice_2024-03-01_2024-03-02", entry())
	s.Put("Bob", entry())

	removed := s.InvalidateSubject("Alice")
	if len(removed) != 2 {
		t.Errorf("expected 2 removed keys, got %v", removed)
	}
	if _, ok := s.Get("Bob"); !ok {
		t.Error("unrelated subject must survive invalidation")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 remaining entry, got %d", s.Len())
	}
}
