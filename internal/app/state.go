// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"chatstat/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Subjects bool
	Snapshot bool
	History  bool
}

// State is the shared application state read by every tab.
type State struct {
	mu sync.RWMutex

	Subjects             []string
	SelectedSubject      string
	SelectedSubjectIndex int
	Range                models.DateRange
	Snapshot             *models.Snapshot
	SnapshotComputedAt   time.Time
	History              []models.HistoryPoint

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the initial application state with the combined view
// selected.
func NewState() *State {
	return &State{
		Subjects:        make([]string, 0),
		SelectedSubject: models.SubjectAll,
		notifications:   make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "subjects":
		s.Loading.Subjects = loading
	case "snapshot":
		s.Loading.Snapshot = loading
	case "history":
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Subjects ||
		s.Loading.Snapshot ||
		s.Loading.History
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// SetSubjects updates the character list, keeping the selection when it
// still exists.
func (s *State) SetSubjects(subjects []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Subjects = subjects
	s.LastUpdated = time.Now()

	if s.SelectedSubject == models.SubjectAll {
		return
	}
	for _, subject := range subjects {
		if subject == s.SelectedSubject {
			return
		}
	}
	s.SelectedSubject = models.SubjectAll
	s.SelectedSubjectIndex = 0
}

// GetSubjects returns a copy of the character list.
func (s *State) GetSubjects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subjects := make([]string, len(s.Subjects))
	copy(subjects, s.Subjects)
	return subjects
}

// GetSubjectCount returns the number of known characters.
func (s *State) GetSubjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Subjects)
}

// SetSelectedSubject changes whose statistics the dashboard shows.
func (s *State) SetSelectedSubject(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedSubject = subject
}

// GetSelectedSubject returns the subject the dashboard is showing.
func (s *State) GetSelectedSubject() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SelectedSubject
}

// GetSelectedSubjectIndex returns the selected row in the subject list.
func (s *State) GetSelectedSubjectIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SelectedSubjectIndex
}

// SetSelectedSubjectIndex updates the selected row in the subject list.
func (s *State) SetSelectedSubjectIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedSubjectIndex = idx
}

// SetRange changes the active date range filter.
func (s *State) SetRange(rng models.DateRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Range = rng
}

// GetRange returns the active date range filter.
func (s *State) GetRange() models.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Range
}

// SetSnapshot updates the snapshot currently on display.
func (s *State) SetSnapshot(snap *models.Snapshot, computedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Snapshot = snap
	s.SnapshotComputedAt = computedAt
	s.LastUpdated = time.Now()
}

// GetSnapshot returns the snapshot currently on display.
func (s *State) GetSnapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Snapshot
}

// GetSnapshotComputedAt returns when the displayed snapshot was computed.
func (s *State) GetSnapshotComputedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SnapshotComputedAt
}

// SetHistory updates the archived trend points for the selected subject.
func (s *State) SetHistory(points []models.HistoryPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = points
}

// GetHistory returns the archived trend points for the selected subject.
func (s *State) GetHistory() []models.HistoryPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	points := make([]models.HistoryPoint, len(s.History))
	copy(points, s.History)
	return points
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Clear expired inline when reading
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
