// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"chatstat/internal/config"
	"chatstat/internal/db"
	"chatstat/internal/logger"
	"chatstat/internal/models"
	"chatstat/internal/services/statistics"
	"chatstat/internal/services/transcripts"
)

type (
	// SubjectsLoadedEvent is emitted when the character list is (re)loaded.
	SubjectsLoadedEvent struct {
		Subjects []string
	}

	// RefreshStartedEvent is emitted when a snapshot recomputation begins.
	RefreshStartedEvent struct {
		Subject string
	}

	// SnapshotUpdatedEvent is emitted when a fresh snapshot is available.
	SnapshotUpdatedEvent struct {
		Subject  string
		Snapshot *models.Snapshot
	}

	// ChatsChangedEvent is emitted when transcripts changed on disk and
	// cached snapshots for the subject were invalidated.
	ChatsChangedEvent struct {
		Subject string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (SubjectsLoadedEvent) isServiceEvent()  {}
func (RefreshStartedEvent) isServiceEvent()  {}
func (SnapshotUpdatedEvent) isServiceEvent() {}
func (ChatsChangedEvent) isServiceEvent()    {}
func (ErrorEvent) isServiceEvent()           {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu            sync.RWMutex
	source        transcripts.Source
	watcher       *transcripts.Watcher
	statistics    *statistics.Service
	database      *db.DB
	config        *config.Config
	eventChan     chan ServiceEvent
	stopChan      chan struct{}
	subscribers   []chan<- ServiceEvent
	previousSnaps map[string]*models.Snapshot
	subjects      []string
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		config:        cfg,
		eventChan:     make(chan ServiceEvent, 100),
		stopChan:      make(chan struct{}),
		previousSnaps: make(map[string]*models.Snapshot),
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.ChatsDir != "" {
		m.source = transcripts.NewDirSource(cfg.ChatsDir)
		m.watcher, err = transcripts.NewWatcher(cfg.ChatsDir)
		if err != nil {
			logger.Warn("change watching disabled", "error", err)
		}
	} else {
		m.source = transcripts.NewClient(cfg.HostURL, cfg.HostAPIKey, cfg.RequestTimeout)
	}

	statsConfig := statistics.DefaultConfig()
	statsConfig.FetchTimeout = cfg.RequestTimeout * 4
	m.statistics = statistics.New(m.source, m.database, statsConfig)

	go m.routeEvents()
	go m.pollRefresh()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	var watcherEvents <-chan transcripts.Event
	if m.watcher != nil {
		watcherEvents = m.watcher.Events()
	}

	for {
		select {
		case event := <-m.statistics.Events():
			m.handleStatisticsEvent(event)

		case event := <-watcherEvents:
			m.handleWatcherEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleStatisticsEvent(event statistics.Event) {
	switch event.Type {
	case statistics.EventRefreshing:
		m.broadcast(RefreshStartedEvent{Subject: event.Subject})

	case statistics.EventSnapshotUpdated:
		m.broadcast(SnapshotUpdatedEvent{
			Subject:  event.Subject,
			Snapshot: event.Snapshot,
		})
		if event.Snapshot != nil {
			m.checkNotifications(event.Subject, event.Snapshot)
		}

	case statistics.EventRefreshError:
		m.broadcast(ErrorEvent{
			Service: "statistics",
			Error:   event.Error,
		})
	}
}

func (m *Manager) handleWatcherEvent(event transcripts.Event) {
	switch event.Type {
	case transcripts.EventChatsChanged:
		// Stale entries go away; the combined view covers every subject,
		// so it is stale too.
		m.statistics.Invalidate(event.Subject)
		if event.Subject != models.SubjectAll {
			m.statistics.Invalidate(models.SubjectAll)
		}
		m.broadcast(ChatsChangedEvent{Subject: event.Subject})

	case transcripts.EventError:
		m.broadcast(ErrorEvent{
			Service: "watcher",
			Error:   event.Error,
		})
	}
}

// checkNotifications raises a desktop notification when a subject shows
// substantial new activity since the previous snapshot.
func (m *Manager) checkNotifications(subject string, snap *models.Snapshot) {
	if !m.config.Notifications || subject == models.SubjectAll {
		return
	}

	m.mu.Lock()
	previous, exists := m.previousSnaps[subject]
	m.previousSnaps[subject] = snap
	m.mu.Unlock()

	if !exists {
		return
	}

	newMessages := snap.TotalMessages - previous.TotalMessages
	if newMessages >= 50 {
		title := fmt.Sprintf("Chat activity: %s", subject)
		body := fmt.Sprintf("%d new messages since the last refresh", newMessages)
		_ = beeep.Notify(title, body, "")
	}
}

// pollRefresh keeps the combined snapshot fresh in the background.
func (m *Manager) pollRefresh() {
	if m.config.RefreshInterval <= 0 {
		return
	}

	ticker := time.NewTicker(m.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := m.RefreshSnapshot(context.Background(), models.SubjectAll, models.DateRange{}, true); err != nil {
				logger.Error("background refresh failed", "error", err)
			}
		case <-m.stopChan:
			return
		}
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// ListSubjects fetches the character list from the transcript source
// and broadcasts it.
func (m *Manager) ListSubjects(ctx context.Context) ([]string, error) {
	subjects, err := m.source.ListSubjects(ctx)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "transcripts", Error: err})
		return nil, err
	}

	m.mu.Lock()
	m.subjects = subjects
	m.mu.Unlock()

	m.broadcast(SubjectsLoadedEvent{Subjects: subjects})
	return subjects, nil
}

// Subjects returns the most recently loaded character list.
func (m *Manager) Subjects() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.subjects
}

// RefreshSnapshot computes or returns the snapshot for a subject and
// range. Results are also delivered through the event stream.
func (m *Manager) RefreshSnapshot(ctx context.Context, subject string, rng models.DateRange, force bool) (*models.Snapshot, error) {
	return m.statistics.Refresh(ctx, subject, rng, force)
}

// GetSnapshot returns the cached snapshot entry for a subject and
// range, if any.
func (m *Manager) GetSnapshot(subject string, rng models.DateRange) *models.CacheEntry {
	return m.statistics.GetSnapshot(subject, rng)
}

// GetSubjectHistory returns archived headline counters for trend charts.
func (m *Manager) GetSubjectHistory(subject string) ([]models.HistoryPoint, error) {
	return m.statistics.GetHistory(subject)
}

// Statistics returns the statistics service.
func (m *Manager) Statistics() *statistics.Service {
	return m.statistics
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := m.statistics.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
