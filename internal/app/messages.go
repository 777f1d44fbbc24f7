package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chatstat/internal/models"
	"chatstat/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// SubjectsLoadedMsg contains the loaded character list.
type SubjectsLoadedMsg struct {
	Subjects []string
	Error    error
}

// SnapshotLoadedMsg contains a computed statistics snapshot.
type SnapshotLoadedMsg struct {
	Subject    string
	Range      models.DateRange
	Snapshot   *models.Snapshot
	ComputedAt time.Time
	Error      error
}

// HistoryLoadedMsg contains archived trend points for a subject.
type HistoryLoadedMsg struct {
	Subject string
	Points  []models.HistoryPoint
	Error   error
}

// SubjectSelectedMsg requests switching the dashboard to a subject.
type SubjectSelectedMsg struct {
	Subject string
}

// RangeChangedMsg requests a new date range filter.
type RangeChangedMsg struct {
	Range models.DateRange
}

// RefreshMsg requests a refresh of data.
type RefreshMsg struct {
	Resource string // "all", "subjects", "snapshot", "history"
	Force    bool
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// DelayedMsg wraps a message to be sent after a delay.
type DelayedMsg struct {
	Delay time.Duration
	Msg   tea.Msg
}
