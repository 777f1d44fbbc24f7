// Package models defines data structures and domain types.
package models

// UnknownCharacter is the sentinel character name used when a chat
// carries no character metadata.
const UnknownCharacter = "Unknown"

// SubjectAll identifies the aggregate over every character.
const SubjectAll = "__all__"

// Message is a single chat turn as stored by the host. SendDate carries
// the raw timestamp representation (string or numeric, several historical
// formats); parsing happens at aggregation time, not at ingestion.
type Message struct {
	Text       string `json:"text"`
	SendDate   string `json:"sendDate,omitempty"`
	Model      string `json:"model,omitempty"`
	TokenCount *int   `json:"tokenCount,omitempty"`
	IsUser     bool   `json:"isUser"`
}

// HasTokenCount reports whether an authoritative non-negative token
// count is attached. Anything else falls back to estimation.
func (m *Message) HasTokenCount() bool {
	return m.TokenCount != nil && *m.TokenCount >= 0
}

// Chat is one conversation file fetched from the host. Message order is
// the stored order, which is not guaranteed monotonic by timestamp.
type Chat struct {
	FileName      string    `json:"fileName"`
	CharacterName string    `json:"characterName,omitempty"`
	Messages      []Message `json:"messages"`
}

// Character returns the chat's character name, falling back to the
// UnknownCharacter sentinel.
func (c *Chat) Character() string {
	if c.CharacterName == "" {
		return UnknownCharacter
	}
	return c.CharacterName
}
