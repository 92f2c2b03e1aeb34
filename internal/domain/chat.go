package domain

import "github.com/google/uuid"

// ChatRequest asks for an assistant reply in a session. A nil SessionID
// starts a new conversation.
type ChatRequest struct {
	SessionID       uuid.UUID `json:"session_id,omitempty"`
	Question        string    `json:"question" validate:"required,max=8000"`
	Provider        string    `json:"provider,omitempty"`
	Model           string    `json:"model,omitempty"`
	SearchDocuments bool      `json:"search_documents,omitempty"`
}

// ChatMetadata carries generation details for one reply
type ChatMetadata struct {
	Provider        string `json:"provider"`
	Model           string `json:"model"`
	TokensUsed      int    `json:"tokens_used"`
	LLMLatencyMs    int64  `json:"llm_latency_ms"`
	ExecutionTimeMs int64  `json:"execution_time_ms"`
}

// ChatResponse is the assistant's reply for one request
type ChatResponse struct {
	SessionID uuid.UUID     `json:"session_id"`
	Message   Message       `json:"message"`
	Metadata  *ChatMetadata `json:"metadata,omitempty"`
}
