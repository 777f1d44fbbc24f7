// Package cache implements the keyed snapshot store.
package cache

import (
	"strings"
	"sync"

	"chatstat/internal/models"
)

// Key builds the cache key for a subject and an optional date range.
// The range suffix is present only when a bound was specified, so the
// unfiltered snapshot for a subject keys on the subject alone.
func Key(subject string, rng models.DateRange) string {
	return subject + rng.Suffix()
}

// Store maps cache keys to previously computed snapshots. Entries are
// never evicted automatically: cardinality is bounded by the distinct
// subject and range combinations the user actually requests. A lookup
// miss is not an error, it signals "must (re)compute".
type Store struct {
	mu      sync.RWMutex
	entries map[string]*models.CacheEntry
}

// New creates an empty store.
func New() *Store {
	return &Store{
		entries: make(map[string]*models.CacheEntry),
	}
}

// Get returns the entry for a key, if present. Lookup never mutates.
func (s *Store) Get(key string) (*models.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok
}

// Put stores an entry, overwriting any previous value for the key.
func (s *Store) Put(key string, entry *models.CacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
}

// InvalidateSubject drops every entry computed for a subject, across
// all ranges, and returns the removed keys. Used when the underlying
// transcripts are known to have changed.
func (s *Store) InvalidateSubject(subject string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for key := range s.entries {
		if key == subject || strings.HasPrefix(key, subject+"_") {
			delete(s.entries, key)
			removed = append(removed, key)
		}
	}
	return removed
}

// InvalidateAll drops every entry.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*models.CacheEntry)
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns a copy of all cache keys.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}
