package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"chatstat/internal/models"
)

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SaveEntry persists a cache entry under its key, replacing any
// previous row. The snapshot is stored as JSON.
func (db *DB) SaveEntry(key, subject string, entry *models.CacheEntry) error {
	data, err := json.Marshal(entry.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO cache_entries
			(key, subject, range_start, range_end, snapshot, computed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = db.ExecContext(context.Background(), query,
		key, subject, entry.Range.Start, entry.Range.End,
		string(data), entry.ComputedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

// LoadEntries reads all persisted cache entries, keyed for the
// in-memory store. Rows with unreadable snapshots are skipped.
func (db *DB) LoadEntries() (map[string]*models.CacheEntry, error) {
	query := `SELECT key, range_start, range_end, snapshot, computed_at FROM cache_entries`
	rows, err := db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make(map[string]*models.CacheEntry)
	for rows.Next() {
		var key, data string
		var rangeStart, rangeEnd, computedAt sql.NullString
		if err := rows.Scan(&key, &rangeStart, &rangeEnd, &data, &computedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}

		var snap models.Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			continue
		}

		entry := &models.CacheEntry{
			Snapshot: &snap,
			Range:    models.DateRange{Start: rangeStart.String, End: rangeEnd.String},
			Bounds:   snap.Bounds,
		}
		if computedAt.Valid {
			if t, ok := parseTimeString(computedAt.String); ok {
				entry.ComputedAt = t
			}
		}
		entries[key] = entry
	}

	return entries, rows.Err()
}

// DeleteEntries removes persisted cache entries by key.
func (db *DB) DeleteEntries(keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, key := range keys {
		placeholders[i] = "?"
		args[i] = key
	}

	query := "DELETE FROM cache_entries WHERE key IN (" + strings.Join(placeholders, ",") + ")"
	if _, err := db.ExecContext(context.Background(), query, args...); err != nil {
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}
	return nil
}

// RecordSnapshot archives a snapshot's headline counters so trends
// between refreshes can be charted later.
func (db *DB) RecordSnapshot(subject string, snap *models.Snapshot, at time.Time) error {
	query := `
		INSERT INTO snapshot_history
			(subject, computed_at, total_messages, total_chats, duration_min, ai_tokens, user_tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(context.Background(), query,
		subject, at.Format(time.RFC3339Nano),
		snap.TotalMessages, snap.TotalChats, snap.TotalDurationMin,
		snap.AITokens, snap.UserTokens)
	if err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}
	return nil
}

// GetHistory returns the most recent archived snapshots for a subject,
// oldest first.
func (db *DB) GetHistory(subject string, limit int) ([]models.HistoryPoint, error) {
	query := `
		SELECT subject, computed_at, total_messages, total_chats, duration_min, ai_tokens, user_tokens
		FROM snapshot_history
		WHERE subject = ?
		ORDER BY computed_at DESC
		LIMIT ?
	`
	rows, err := db.QueryContext(context.Background(), query, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []models.HistoryPoint
	for rows.Next() {
		var p models.HistoryPoint
		var computedAt sql.NullString
		if err := rows.Scan(&p.Subject, &computedAt, &p.TotalMessages, &p.TotalChats,
			&p.DurationMin, &p.AITokens, &p.UserTokens); err != nil {
			return nil, fmt.Errorf("failed to scan history point: %w", err)
		}
		if computedAt.Valid {
			if t, ok := parseTimeString(computedAt.String); ok {
				p.ComputedAt = t
			}
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to oldest-first for charting.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// PruneHistory deletes archived snapshots older than the cutoff.
func (db *DB) PruneHistory(cutoff time.Time) error {
	query := `DELETE FROM snapshot_history WHERE computed_at < ?`
	if _, err := db.ExecContext(context.Background(), query, cutoff.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}
