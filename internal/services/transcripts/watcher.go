package transcripts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"chatstat/internal/logger"
	"chatstat/internal/models"
)

// Event is a transcript watcher event.
type Event struct {
	Error   error
	Subject string
	Type    EventType
}

// EventType defines the type of watcher event.
type EventType int

const (
	// EventChatsChanged indicates that chat files changed on disk for a subject.
	EventChatsChanged EventType = iota
	// EventError indicates a watcher failure.
	EventError
)

// Watcher observes the host's chat export directory and reports which
// subject's transcripts changed, so cached snapshots can be marked
// stale without polling.
type Watcher struct {
	mu            sync.Mutex
	root          string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	pending       map[string]struct{}
}

// NewWatcher starts watching the chats directory and its per-character
// subdirectories.
func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		root:      root,
		watcher:   fsw,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
		pending:   make(map[string]struct{}),
	}

	if err := fsw.Add(root); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}

	// fsnotify is not recursive; watch existing character directories.
	entries, err := os.ReadDir(root)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				if err := fsw.Add(filepath.Join(root, entry.Name())); err != nil {
					logger.Warn("failed to watch subject directory", "dir", entry.Name(), "error", err)
				}
			}
		}
	}

	go w.watchLoop()
	return w, nil
}

// Events returns the event channel.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

// watchLoop handles file system events with debouncing, coalescing a
// burst of writes into one changed event per subject.
func (w *Watcher) watchLoop() {
	const debounceInterval = 200 * time.Millisecond

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// A new character directory needs its own watch.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.watcher.Add(event.Name); err != nil {
						logger.Warn("failed to watch new directory", "dir", event.Name, "error", err)
					}
				}
			}

			w.mu.Lock()
			w.pending[w.subjectFor(event.Name)] = struct{}{}
			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.debounceTimer = time.AfterFunc(debounceInterval, w.flushPending)
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendEvent(Event{Type: EventError, Error: err})

		case <-w.stopChan:
			return
		}
	}
}

// subjectFor maps a changed path to the character whose transcripts it
// belongs to; changes at the root affect all subjects.
func (w *Watcher) subjectFor(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return models.SubjectAll
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return models.SubjectAll
	}
	return parts[0]
}

func (w *Watcher) flushPending() {
	w.mu.Lock()
	subjects := make([]string, 0, len(w.pending))
	for subject := range w.pending {
		subjects = append(subjects, subject)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	for _, subject := range subjects {
		w.sendEvent(Event{Type: EventChatsChanged, Subject: subject})
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-w.eventChan:
		default:
		}
		select {
		case w.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() error {
	close(w.stopChan)

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	return w.watcher.Close()
}
