package db

import (
	"path/filepath"
	"testing"
	"time"

	"chatstat/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func testEntry() *models.CacheEntry {
	snap := models.NewSnapshot()
	snap.TotalMessages = 6
	snap.TotalChats = 2
	snap.DailyActivity["2024-03-01"] = 4
	snap.DailyActivity["2024-03-02"] = 2
	snap.Bounds = models.DateRange{Start: "2024-03-01", End: "2024-03-02"}

	return &models.CacheEntry{
		Snapshot:   snap,
		Range:      models.DateRange{Start: "2024-03-01", End: "2024-03-02"},
		Bounds:     snap.Bounds,
		ComputedAt: time.Now().Truncate(time.Second),
	}
}

func TestSaveAndLoadEntries(t *testing.T) {
	database := testDB(t)
	entry := testEntry()

	if err := database.SaveEntry("Alice_2024-03-01_2024-03-02", "Alice", entry); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}

	loaded, err := database.LoadEntries()
	if err != nil {
		t.Fatalf("LoadEntries failed: %v", err)
	}
	got, ok := loaded["Alice_2024-03-01_2024-03-02"]
	if !ok {
		t.Fatal("expected persisted entry back")
	}
	if got.Snapshot.TotalMessages != 6 {
		t.Errorf("expected 6 messages, got %d", got.Snapshot.TotalMessages)
	}
	if got.Snapshot.DailyActivity["2024-03-01"] != 4 {
		t.Errorf("unexpected daily activity %v", got.Snapshot.DailyActivity)
	}
	if got.Range != entry.Range {
		t.Errorf("expected range %v, got %v", entry.Range, got.Range)
	}
	if !got.ComputedAt.Equal(entry.ComputedAt) {
		t.Errorf("expected computed_at %v, got %v", entry.ComputedAt, got.ComputedAt)
	}
}

func TestSaveEntry_Overwrites(t *testing.T) {
	database := testDB(t)

	first := testEntry()
	if err := database.SaveEntry("Alice", "Alice", first); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}

	second := testEntry()
	second.Snapshot.TotalMessages = 10
	if err := database.SaveEntry("Alice", "Alice", second); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}

	loaded, err := database.LoadEntries()
	if err != nil {
		t.Fatalf("LoadEntries failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(loaded))
	}
	if loaded["Alice"].Snapshot.TotalMessages != 10 {
		t.Errorf("expected overwrite, got %d messages", loaded["Alice"].Snapshot.TotalMessages)
	}
}

func TestDeleteEntries(t *testing.T) {
	database := testDB(t)

	if err := database.SaveEntry("Alice", "Alice", testEntry()); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}
	if err := database.SaveEntry("Bob", "Bob", testEntry()); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}

	if err := database.DeleteEntries([]string{"Alice"}); err != nil {
		t.Fatalf("DeleteEntries failed: %v", err)
	}

	loaded, err := database.LoadEntries()
	if err != nil {
		t.Fatalf("LoadEntries failed: %v", err)
	}
	if _, ok := loaded["Alice"]; ok {
		t.Error("expected Alice entry deleted")
	}
	if _, ok := loaded["Bob"]; !ok {
		t.Error("expected Bob entry to survive")
	}
}

func TestSnapshotHistory(t *testing.T) {
	database := testDB(t)

	snap := models.NewSnapshot()
	snap.TotalMessages = 3
	snap.TotalDurationMin = 12

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i := 0; i < 3; i++ {
		snap.TotalMessages += i
		if err := database.RecordSnapshot("Alice", snap, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("RecordSnapshot failed: %v", err)
		}
	}

	points, err := database.GetHistory("Alice", 10)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 history points, got %d", len(points))
	}
	if !points[0].ComputedAt.Before(points[2].ComputedAt) {
		t.Error("expected oldest-first ordering")
	}

	if points, _ := database.GetHistory("Bob", 10); len(points) != 0 {
		t.Errorf("expected no history for unknown subject, got %d", len(points))
	}
}
