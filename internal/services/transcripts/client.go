// Package transcripts retrieves chat transcripts from the host
// application, over its REST API or from a local export directory.
package transcripts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"chatstat/internal/logger"
	"chatstat/internal/models"
)

// Source supplies chat transcripts per subject. Implementations must
// honor context cancellation and tolerate individual-item failures when
// fetching the "all subjects" shape.
type Source interface {
	ListSubjects(ctx context.Context) ([]string, error)
	FetchChats(ctx context.Context, subject string) ([]models.Chat, error)
}

const defaultRequestTimeout = 30 * time.Second

// Client fetches transcripts from the host's REST endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a transcript client for the given host base URL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type characterList struct {
	Characters []struct {
		Name string `json:"name"`
	} `json:"characters"`
}

type chatList struct {
	Chats []chatFile `json:"chats"`
}

type chatFile struct {
	FileName      string        `json:"file_name"`
	CharacterName string        `json:"character_name"`
	Messages      []wireMessage `json:"messages"`
}

// wireMessage mirrors the host's stored message shape. SendDate is kept
// raw because the host has written strings and numbers over the years.
type wireMessage struct {
	Mes      string          `json:"mes"`
	SendDate json.RawMessage `json:"send_date,omitempty"`
	Extra    *wireExtra      `json:"extra,omitempty"`
	IsUser   bool            `json:"is_user"`
}

type wireExtra struct {
	TokenCount *float64 `json:"token_count,omitempty"`
	Model      string   `json:"model,omitempty"`
}

// ListSubjects returns the character names known to the host.
func (c *Client) ListSubjects(ctx context.Context) ([]string, error) {
	var list characterList
	if err := c.get(ctx, "/api/characters", nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	subjects := make([]string, 0, len(list.Characters))
	for _, ch := range list.Characters {
		if ch.Name != "" {
			subjects = append(subjects, ch.Name)
		}
	}
	return subjects, nil
}

// FetchChats retrieves all chats for one subject, or for every subject
// when given models.SubjectAll. In the all-subjects shape a failed
// single fetch is logged and skipped rather than aborting the batch;
// cancellation aborts the whole batch so partial results are never
// handed to the aggregator.
func (c *Client) FetchChats(ctx context.Context, subject string) ([]models.Chat, error) {
	if subject == models.SubjectAll {
		return c.fetchAll(ctx)
	}
	return c.fetchSubject(ctx, subject)
}

func (c *Client) fetchAll(ctx context.Context) ([]models.Chat, error) {
	subjects, err := c.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}

	var chats []models.Chat
	for _, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		subjectChats, err := c.fetchSubject(ctx, subject)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("failed to fetch chats for subject", "subject", subject, "error", err)
			continue
		}
		chats = append(chats, subjectChats...)
	}
	return chats, nil
}

func (c *Client) fetchSubject(ctx context.Context, subject string) ([]models.Chat, error) {
	query := url.Values{}
	query.Set("character", subject)

	var list chatList
	if err := c.get(ctx, "/api/chats", query, &list); err != nil {
		return nil, fmt.Errorf("failed to fetch chats for %s: %w", subject, err)
	}

	chats := make([]models.Chat, 0, len(list.Chats))
	for _, cf := range list.Chats {
		chats = append(chats, cf.toChat(subject))
	}
	return chats, nil
}

func (cf chatFile) toChat(fallbackCharacter string) models.Chat {
	character := cf.CharacterName
	if character == "" {
		character = fallbackCharacter
	}

	chat := models.Chat{
		FileName:      cf.FileName,
		CharacterName: character,
		Messages:      make([]models.Message, 0, len(cf.Messages)),
	}
	for _, wm := range cf.Messages {
		chat.Messages = append(chat.Messages, wm.toMessage())
	}
	return chat
}

func (wm wireMessage) toMessage() models.Message {
	msg := models.Message{
		Text:     wm.Mes,
		IsUser:   wm.IsUser,
		SendDate: rawToString(wm.SendDate),
	}
	if wm.Extra != nil {
		msg.Model = wm.Extra.Model
		if tc, ok := validTokenCount(wm.Extra.TokenCount); ok {
			msg.TokenCount = &tc
		}
	}
	return msg
}

// rawToString normalizes the raw send_date JSON value: quoted strings
// are unquoted, numbers pass through as their literal text.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		if s, err := strconv.Unquote(string(raw)); err == nil {
			return s
		}
	}
	return string(raw)
}

// validTokenCount accepts only finite, non-negative integral values as
// authoritative counts; anything else falls back to estimation.
func validTokenCount(v *float64) (int, bool) {
	if v == nil {
		return 0, false
	}
	f := *v
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
