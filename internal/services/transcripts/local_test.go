package transcripts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"chatstat/internal/models"
)

func writeChatFile(t *testing.T, root, subject, name string, lines ...string) {
	t.Helper()
	dir := filepath.Join(root, subject)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create subject dir: %v", err)
	}
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write chat file: %v", err)
	}
}

func TestDirSource_ListSubjects(t *testing.T) {
	root := t.TempDir()
	writeChatFile(t, root, "Alice", "a.jsonl", `{"character_name":"Alice"}`)
	writeChatFile(t, root, "Bob", "b.jsonl", `{"character_name":"Bob"}`)
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	subjects, err := NewDirSource(root).ListSubjects(context.Background())
	if err != nil {
		t.Fatalf("ListSubjects failed: %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("expected 2 subjects, got %v", subjects)
	}
}

func TestDirSource_FetchChats(t *testing.T) {
	root := t.TempDir()
	writeChatFile(t, root, "Alice", "first.jsonl",
		`{"character_name":"Alice","user_name":"User"}`,
		`{"mes":"hi","is_user":true,"send_date":"2024-03-01T10:00:00"}`,
		`not json at all`,
		`{"mes":"hello","is_user":false,"extra":{"token_count":7,"model":"gpt-4"}}`,
	)

	chats, err := NewDirSource(root).FetchChats(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("FetchChats failed: %v", err)
	}
	if len(chats) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(chats))
	}

	chat := chats[0]
	if chat.FileName != "first.jsonl" || chat.CharacterName != "Alice" {
		t.Errorf("unexpected chat identity %+v", chat)
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("expected corrupt line skipped, got %d messages", len(chat.Messages))
	}
	if !chat.Messages[0].IsUser || chat.Messages[0].SendDate != "2024-03-01T10:00:00" {
		t.Errorf("unexpected first message %+v", chat.Messages[0])
	}
	if !chat.Messages[1].HasTokenCount() || *chat.Messages[1].TokenCount != 7 {
		t.Errorf("expected token count 7, got %+v", chat.Messages[1].TokenCount)
	}
}

func TestDirSource_FetchChats_HeaderlessFile(t *testing.T) {
	root := t.TempDir()
	// Old exports start straight with a message line.
	writeChatFile(t, root, "Alice", "old.jsonl",
		`{"mes":"no header here","is_user":true}`,
		`{"mes":"reply","is_user":false}`,
	)

	chats, err := NewDirSource(root).FetchChats(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("FetchChats failed: %v", err)
	}
	if len(chats[0].Messages) != 2 {
		t.Fatalf("expected first line kept as message, got %d", len(chats[0].Messages))
	}
	if chats[0].CharacterName != "Alice" {
		t.Errorf("expected directory name fallback, got %q", chats[0].CharacterName)
	}
}

func TestDirSource_FetchChats_AllSubjects(t *testing.T) {
	root := t.TempDir()
	writeChatFile(t, root, "Alice", "a.jsonl",
		`{"character_name":"Alice"}`,
		`{"mes":"hi","is_user":true}`,
	)
	writeChatFile(t, root, "Bob", "b.jsonl",
		`{"character_name":"Bob"}`,
		`{"mes":"yo","is_user":true}`,
	)

	chats, err := NewDirSource(root).FetchChats(context.Background(), models.SubjectAll)
	if err != nil {
		t.Fatalf("FetchChats failed: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(chats))
	}
}

func TestDirSource_FetchChats_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeChatFile(t, root, "Alice", "a.jsonl", `{"mes":"hi","is_user":true}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewDirSource(root).FetchChats(ctx, "Alice"); err == nil {
		t.Fatal("expected cancellation error")
	}
}
