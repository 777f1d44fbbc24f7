// Package statistics computes and caches chat statistics snapshots.
package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"chatstat/internal/cache"
	"chatstat/internal/db"
	"chatstat/internal/logger"
	"chatstat/internal/models"
	"chatstat/internal/services/transcripts"
	"chatstat/internal/stats"
)

// Event represents a statistics service event.
type Event struct {
	Error    error
	Snapshot *models.Snapshot
	Subject  string
	Type     EventType
}

// EventType defines the type of statistics event.
type EventType int

const (
	// EventRefreshing indicates that a snapshot recomputation has started.
	EventRefreshing EventType = iota
	// EventSnapshotUpdated indicates that a fresh snapshot is available.
	EventSnapshotUpdated
	// EventRefreshError indicates that a refresh failed.
	EventRefreshError
)

// Config holds configuration for the statistics service.
type Config struct {
	FetchTimeout time.Duration
	HistoryLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FetchTimeout: 2 * time.Minute,
		HistoryLimit: 50,
	}
}

// Service owns the snapshot cache. It recomputes snapshots from
// transcripts on demand, persists entries between runs, and guarantees
// that a superseded refresh for the same subject never overwrites a
// newer one.
type Service struct {
	source    transcripts.Source
	store     *cache.Store
	database  *db.DB
	eventChan chan Event
	config    Config

	mu       sync.Mutex
	inFlight map[string]*refresh
}

// refresh identifies one in-flight recomputation.
type refresh struct {
	cancel context.CancelFunc
}

// New creates a statistics service. Previously persisted cache entries
// are loaded so the dashboard has data before the first refresh.
func New(source transcripts.Source, database *db.DB, config Config) *Service {
	if config.FetchTimeout == 0 {
		config = DefaultConfig()
	}

	s := &Service{
		source:    source,
		store:     cache.New(),
		database:  database,
		eventChan: make(chan Event, 100),
		config:    config,
		inFlight:  make(map[string]*refresh),
	}

	if database != nil {
		entries, err := database.LoadEntries()
		if err != nil {
			logger.Warn("failed to load persisted snapshots", "error", err)
		} else {
			for key, entry := range entries {
				s.store.Put(key, entry)
			}
			if len(entries) > 0 {
				logger.Info("loaded persisted snapshots", "count", len(entries))
			}
		}
	}

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// GetSnapshot returns the cached snapshot entry for a subject and
// range, or nil when none has been computed yet.
func (s *Service) GetSnapshot(subject string, rng models.DateRange) *models.CacheEntry {
	entry, _ := s.store.Get(cache.Key(subject, rng))
	return entry
}

// Refresh returns the cached snapshot when present, or recomputes it
// from the transcript source. With force set the cache is bypassed.
// Starting a refresh for a subject cancels any refresh already running
// for that subject, so only the newest request can publish a result.
func (s *Service) Refresh(ctx context.Context, subject string, rng models.DateRange, force bool) (*models.Snapshot, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	key := cache.Key(subject, rng)
	if !force {
		if entry, ok := s.store.Get(key); ok {
			return entry.Snapshot, nil
		}
	}

	s.sendEvent(Event{Type: EventRefreshing, Subject: subject})

	fetchCtx, cancel := context.WithTimeout(ctx, s.config.FetchTimeout)
	defer cancel()

	mine := &refresh{cancel: cancel}
	s.mu.Lock()
	if prev, ok := s.inFlight[subject]; ok {
		prev.cancel()
	}
	s.inFlight[subject] = mine
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.inFlight[subject] == mine {
			delete(s.inFlight, subject)
		}
		s.mu.Unlock()
	}()

	chats, err := s.source.FetchChats(fetchCtx, subject)
	if err != nil {
		if fetchCtx.Err() != nil && ctx.Err() == nil {
			// Superseded by a newer refresh; stay silent.
			return nil, fetchCtx.Err()
		}
		s.sendEvent(Event{Type: EventRefreshError, Subject: subject, Error: err})
		return nil, fmt.Errorf("failed to fetch transcripts for %s: %w", subject, err)
	}

	snapshot := stats.Aggregate(chats, rng)
	snapshot.Bounds = stats.Bounds(chats)

	entry := &models.CacheEntry{
		Snapshot:   snapshot,
		Range:      rng,
		Bounds:     snapshot.Bounds,
		ComputedAt: time.Now(),
	}
	s.store.Put(key, entry)

	if s.database != nil {
		if err := s.database.SaveEntry(key, subject, entry); err != nil {
			logger.Warn("failed to persist snapshot", "subject", subject, "error", err)
		}
		if err := s.database.RecordSnapshot(subject, snapshot, entry.ComputedAt); err != nil {
			logger.Warn("failed to record snapshot history", "subject", subject, "error", err)
		}
	}

	s.sendEvent(Event{Type: EventSnapshotUpdated, Subject: subject, Snapshot: snapshot})
	return snapshot, nil
}

// Invalidate drops every cached snapshot for a subject, in memory and
// on disk. Entries survive until the next refresh replaces them only
// through this explicit call; the cache never evicts on its own.
func (s *Service) Invalidate(subject string) {
	removed := s.store.InvalidateSubject(subject)
	if len(removed) == 0 {
		return
	}
	if s.database != nil {
		if err := s.database.DeleteEntries(removed); err != nil {
			logger.Warn("failed to delete persisted snapshots", "subject", subject, "error", err)
		}
	}
	logger.Debug("invalidated cached snapshots", "subject", subject, "count", len(removed))
}

// InvalidateAll drops every cached snapshot.
func (s *Service) InvalidateAll() {
	keys := s.store.Keys()
	s.store.InvalidateAll()
	if s.database != nil && len(keys) > 0 {
		if err := s.database.DeleteEntries(keys); err != nil {
			logger.Warn("failed to delete persisted snapshots", "error", err)
		}
	}
}

// GetHistory returns archived headline counters for a subject, oldest
// first, for trend charts.
func (s *Service) GetHistory(subject string) ([]models.HistoryPoint, error) {
	if s.database == nil {
		return nil, nil
	}
	return s.database.GetHistory(subject, s.config.HistoryLimit)
}

// CachedKeys returns the keys currently held in the cache.
func (s *Service) CachedKeys() []string {
	return s.store.Keys()
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close cancels any in-flight refreshes.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for subject, r := range s.inFlight {
		r.cancel()
		delete(s.inFlight, subject)
	}
	return nil
}
