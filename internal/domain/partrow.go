package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PartRow is the storage representation of one part: a wide row with a type
// discriminator and one nullable column group per part type. Only the
// columns for the row's type are non-nil. In-process code never works with
// this shape directly; the partcodec package converts to and from Part.
type PartRow struct {
	ID        uuid.UUID   `json:"id"`
	SessionID uuid.UUID   `json:"chat_session_id"`
	MessageID string      `json:"message_id"`
	Role      MessageRole `json:"role"`
	Type      string      `json:"type"`
	Ord       int         `json:"ord"`
	Seq       int64       `json:"seq"`
	CreatedAt time.Time   `json:"created_at"`

	TextContent *string `json:"text_text,omitempty"`
	TextState   *string `json:"text_state,omitempty"`

	ReasoningContent *string `json:"reasoning_text,omitempty"`
	ReasoningState   *string `json:"reasoning_state,omitempty"`

	FileURL       *string `json:"file_url,omitempty"`
	FileName      *string `json:"file_filename,omitempty"`
	FileMediaType *string `json:"file_media_type,omitempty"`

	SourceID        *string `json:"source_id,omitempty"`
	SourceURL       *string `json:"source_url,omitempty"`
	SourceTitle     *string `json:"source_title,omitempty"`
	SourceMediaType *string `json:"source_media_type,omitempty"`
	SourceFilename  *string `json:"source_filename,omitempty"`

	ToolName   *string `json:"tool_name,omitempty"`
	ToolCallID *string `json:"tool_call_id,omitempty"`
	ToolState  *string `json:"tool_state,omitempty"`
	ToolInput  []byte  `json:"tool_input,omitempty"`
	ToolOutput []byte  `json:"tool_output,omitempty"`
	ToolError  *string `json:"tool_error_text,omitempty"`
}

// PartRepository defines the interface for part-row storage
type PartRepository interface {
	// BulkUpsert writes all rows in one round trip, updating in place on id
	// conflict. Rows for the same logical part written across streaming
	// steps must end as one stored row reflecting the latest write.
	BulkUpsert(ctx context.Context, rows []PartRow) error
	// ListBySession returns all rows for a session ordered by (seq, ord),
	// the order the reconstructor requires.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]PartRow, error)
}
