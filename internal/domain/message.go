package domain

import "encoding/json"

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message is one conversational turn: an ordered sequence of parts authored
// by a single role. IDs are producer-assigned strings, not UUIDs; the
// streaming layer may mint a fresh id per step for the same assistant turn.
type Message struct {
	ID    string      `json:"id"`
	Role  MessageRole `json:"role"`
	Parts []Part      `json:"parts"`
}

// MarshalJSON tags every part with its type discriminator.
func (m Message) MarshalJSON() ([]byte, error) {
	parts := make([]json.RawMessage, 0, len(m.Parts))
	for _, p := range m.Parts {
		raw, err := MarshalPart(p)
		if err != nil {
			return nil, err
		}
		parts = append(parts, raw)
	}
	return json.Marshal(struct {
		ID    string            `json:"id"`
		Role  MessageRole       `json:"role"`
		Parts []json.RawMessage `json:"parts"`
	}{m.ID, m.Role, parts})
}

// Text concatenates the content of all text parts, used for titles and
// LLM history.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if t, ok := p.(TextPart); ok {
			out += t.Content
		}
	}
	return out
}
