package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"chatstat/internal/models"
	"chatstat/internal/services"
)

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabOverview {
		t.Error("Default tab should be Overview")
	}
	if len(model.tabs) != 4 {
		t.Errorf("Should have 4 tabs placeholder, got %d", len(model.tabs))
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil)
	cmd := model.Init()
	if cmd == nil {
		t.Error("Init returned nil command")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil)
	msg := tea.WindowSizeMsg{Width: 100, Height: 50}

	newModel, _ := model.Update(msg)

	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}

	if m.width != 100 {
		t.Errorf("Width = %d, want 100", m.width)
	}
	if m.height != 50 {
		t.Errorf("Height = %d, want 50", m.height)
	}
	if !m.ready {
		t.Error("Model should be ready after WindowSizeMsg")
	}
}

func TestModel_Update_TabSwitch(t *testing.T) {
	model := NewModel(nil)
	model.ready = true
	model.width = 100
	model.height = 50

	// Test switching to Activity
	msg := TabSwitchMsg{Tab: TabActivity}
	newModel, _ := model.Update(msg)
	m := newModel.(*Model)

	if m.activeTab != TabActivity {
		t.Errorf("ActiveTab = %v, want Activity", m.activeTab)
	}

	// Test key binding '3'
	keyMsg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}}
	model.handleKeyMsg(keyMsg)
	if model.activeTab != TabSubjects {
		t.Errorf("ActiveTab = %v, want Characters", model.activeTab)
	}
}

func TestModel_Update_Tick(t *testing.T) {
	model := NewModel(nil)
	msg := TickMsg{Time: time.Now()}

	_, cmd := model.Update(msg)
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil)

	// Not ready
	view := model.View()
	if !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	// Ready
	model.ready = true
	model.width = 80
	model.height = 24

	view = model.View()
	// Should show tabs
	if !strings.Contains(view, "Overview") {
		t.Error("View should show Overview tab")
	}
	// Should show placeholder since tabs are nil
	if !strings.Contains(view, "not yet implemented") {
		t.Error("View should show placeholder text")
	}
}

func TestModel_Help(t *testing.T) {
	model := NewModel(nil)
	model.ready = true
	model.width = 80
	model.height = 24

	// Toggle help
	model.Update(ToggleHelpMsg{})
	if !model.showHelp {
		t.Error("showHelp should be true")
	}

	view := model.View()
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("View should show help modal")
	}

	// Toggle off via key
	model.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if model.showHelp {
		t.Error("showHelp should be false after toggle")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := NewModel(nil)

	msg := AddNotificationMsg{
		Message:  "Test Note",
		Type:     NotificationInfo,
		Duration: 0,
	}

	model.Update(msg)

	notifs := model.state.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification, got %d", len(notifs))
	}

	// Test rendering
	model.ready = true
	model.width = 80
	model.height = 24
	view := model.View()
	if !strings.Contains(view, "Test Note") {
		t.Error("View should show notification")
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(nil)

	// Subjects event
	model.handleServiceEvent(services.SubjectsLoadedEvent{Subjects: []string{"Alice"}})
	if model.state.GetSubjectCount() != 1 {
		t.Error("Subjects should be updated")
	}

	// Snapshot event for the displayed subject
	snap := models.NewSnapshot()
	snap.TotalMessages = 9
	model.handleServiceEvent(services.SnapshotUpdatedEvent{
		Subject:  models.SubjectAll,
		Snapshot: snap,
	})
	if got := model.state.GetSnapshot(); got == nil || got.TotalMessages != 9 {
		t.Error("Snapshot should be updated for the displayed subject")
	}

	// Snapshot event for another subject is ignored
	other := models.NewSnapshot()
	other.TotalMessages = 99
	model.handleServiceEvent(services.SnapshotUpdatedEvent{Subject: "Bob", Snapshot: other})
	if model.state.GetSnapshot().TotalMessages != 9 {
		t.Error("Snapshot for another subject must not replace the display")
	}

	// Error event
	errEvent := services.ErrorEvent{Service: "test", Error: errors.New("boom")}
	cmd := model.handleServiceEvent(errEvent)
	if cmd == nil {
		t.Error("Error event should trigger notification command")
	}
}

func TestModel_Update_Messages(t *testing.T) {
	model := NewModel(nil)

	// Test StartLoadingMsg
	model.Update(StartLoadingMsg{Resource: "snapshot"})
	if !model.state.Loading.Snapshot {
		t.Error("Loading.Snapshot should be true")
	}

	// Test StopLoadingMsg
	model.Update(StopLoadingMsg{Resource: "snapshot"})
	if model.state.Loading.Snapshot {
		t.Error("Loading.Snapshot should be false")
	}

	// Test SubjectsLoadedMsg
	model.Update(SubjectsLoadedMsg{Subjects: []string{"Alice", "Bob"}})
	if model.state.GetSubjectCount() != 2 {
		t.Error("Subjects should be updated")
	}

	// Test SnapshotLoadedMsg for the displayed subject
	snap := models.NewSnapshot()
	snap.TotalChats = 3
	model.Update(SnapshotLoadedMsg{
		Subject:    models.SubjectAll,
		Snapshot:   snap,
		ComputedAt: time.Now(),
	})
	if model.state.Loading.Initial {
		t.Error("Initial loading should be false")
	}
	if got := model.state.GetSnapshot(); got == nil || got.TotalChats != 3 {
		t.Error("Snapshot should be set")
	}

	// A stale snapshot for an unselected subject is dropped
	stale := models.NewSnapshot()
	stale.TotalChats = 42
	model.Update(SnapshotLoadedMsg{Subject: "Bob", Snapshot: stale, ComputedAt: time.Now()})
	if model.state.GetSnapshot().TotalChats != 3 {
		t.Error("Stale snapshot must not replace the display")
	}

	// Test SnapshotLoadedMsg with error
	model.Update(SnapshotLoadedMsg{Subject: models.SubjectAll, Error: errors.New("fetch failed")})
	if model.state.GetSnapshot().TotalChats != 3 {
		t.Error("Errored refresh must not clear the display")
	}

	// Test HistoryLoadedMsg
	model.Update(HistoryLoadedMsg{
		Subject: models.SubjectAll,
		Points:  []models.HistoryPoint{{TotalMessages: 1}},
	})
	if len(model.state.GetHistory()) != 1 {
		t.Error("History should be set")
	}

	// Test RefreshMsg (services nil, covers the switch)
	model.Update(RefreshMsg{Resource: "all"})
	model.Update(RefreshMsg{Resource: "subjects"})
	model.Update(RefreshMsg{Resource: "snapshot"})
	model.Update(RefreshMsg{Resource: "history"})

	// Test Notification Messages
	model.Update(AddNotificationMsg{Message: "test", Type: NotificationInfo})
	model.Update(RemoveNotificationMsg{ID: "nonexistent"})
	model.Update(ClearExpiredNotificationsMsg{})
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil)
	// Spinner tick returns a command
	_, cmd := model.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestTabID_String(t *testing.T) {
	if TabOverview.String() != "Overview" {
		t.Error("TabOverview.String() mismatch")
	}
	if TabActivity.String() != "Activity" {
		t.Error("TabActivity.String() mismatch")
	}
	if TabSubjects.String() != "Characters" {
		t.Error("TabSubjects.String() mismatch")
	}
	if TabInfo.String() != "Info" {
		t.Error("TabInfo.String() mismatch")
	}
	if TabID(999).String() != "Unknown" {
		t.Error("Unknown tab string mismatch")
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()
	// Just check it doesn't panic and returns something
	_ = s
}
