package transcripts

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chatstat/internal/logger"
	"chatstat/internal/models"
)

// DirSource reads chats the host exported to disk: one subdirectory per
// character, one JSONL file per conversation. The first line of a file
// is a metadata header, every following line is one message.
type DirSource struct {
	root string
}

// NewDirSource creates a directory-backed transcript source.
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

type chatHeader struct {
	CharacterName string `json:"character_name"`
	UserName      string `json:"user_name"`
}

// ListSubjects returns the character subdirectory names.
func (d *DirSource) ListSubjects(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read chats directory: %w", err)
	}

	var subjects []string
	for _, entry := range entries {
		if entry.IsDir() {
			subjects = append(subjects, entry.Name())
		}
	}
	return subjects, nil
}

// FetchChats reads all chat files for a subject, or for every subject
// when given models.SubjectAll. A file that fails to read is logged and
// skipped; cancellation aborts the whole batch.
func (d *DirSource) FetchChats(ctx context.Context, subject string) ([]models.Chat, error) {
	subjects := []string{subject}
	if subject == models.SubjectAll {
		all, err := d.ListSubjects(ctx)
		if err != nil {
			return nil, err
		}
		subjects = all
	}

	var chats []models.Chat
	for _, sub := range subjects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		files, err := filepath.Glob(filepath.Join(d.root, sub, "*.jsonl"))
		if err != nil {
			return nil, fmt.Errorf("failed to glob chat files: %w", err)
		}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			chat, err := readChatFile(file, sub)
			if err != nil {
				logger.Warn("failed to read chat file", "file", file, "error", err)
				continue
			}
			chats = append(chats, chat)
		}
	}
	return chats, nil
}

// readChatFile parses one exported JSONL chat. Unreadable message lines
// are skipped so one corrupt line does not discard a whole transcript.
func readChatFile(path, fallbackCharacter string) (models.Chat, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Chat{}, err
	}
	defer func() { _ = f.Close() }()

	chat := models.Chat{
		FileName:      filepath.Base(path),
		CharacterName: fallbackCharacter,
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if first {
			first = false
			var header chatHeader
			if err := json.Unmarshal([]byte(line), &header); err == nil && header.CharacterName != "" {
				chat.CharacterName = header.CharacterName
				continue
			}
			// No header line; fall through and treat it as a message.
		}

		var wm wireMessage
		if err := json.Unmarshal([]byte(line), &wm); err != nil {
			continue
		}
		chat.Messages = append(chat.Messages, wm.toMessage())
	}
	if err := scanner.Err(); err != nil {
		return models.Chat{}, err
	}

	return chat, nil
}
