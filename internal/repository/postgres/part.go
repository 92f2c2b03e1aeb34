package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PartRepository implements domain.PartRepository over the wide chat_parts
// table.
type PartRepository struct {
	pool *pgxpool.Pool
}

// NewPartRepository creates a new part repository
func NewPartRepository(db *DB) *PartRepository {
	return &PartRepository{pool: db.Pool}
}

const upsertPartQuery = `
	INSERT INTO chat_parts (
		id, chat_session_id, message_id, role, type, ord, seq, created_at,
		text_text, text_state,
		reasoning_text, reasoning_state,
		file_url, file_filename, file_media_type,
		source_id, source_url, source_title, source_media_type, source_filename,
		tool_name, tool_call_id, tool_state, tool_input, tool_output, tool_error_text
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8,
		$9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		$21, $22, $23, $24, $25, $26
	)
	ON CONFLICT (id) DO UPDATE SET
		ord = EXCLUDED.ord,
		seq = EXCLUDED.seq,
		text_text = EXCLUDED.text_text,
		text_state = EXCLUDED.text_state,
		reasoning_text = EXCLUDED.reasoning_text,
		reasoning_state = EXCLUDED.reasoning_state,
		file_url = EXCLUDED.file_url,
		file_filename = EXCLUDED.file_filename,
		file_media_type = EXCLUDED.file_media_type,
		source_id = EXCLUDED.source_id,
		source_url = EXCLUDED.source_url,
		source_title = EXCLUDED.source_title,
		source_media_type = EXCLUDED.source_media_type,
		source_filename = EXCLUDED.source_filename,
		tool_name = EXCLUDED.tool_name,
		tool_call_id = EXCLUDED.tool_call_id,
		tool_state = EXCLUDED.tool_state,
		tool_input = EXCLUDED.tool_input,
		tool_output = EXCLUDED.tool_output,
		tool_error_text = EXCLUDED.tool_error_text
`

// BulkUpsert writes all rows in one batched round trip. Conflict policy is
// update-in-place: the same part is re-persisted as its streaming state
// advances and the latest write must win.
func (r *PartRepository) BulkUpsert(ctx context.Context, rows []domain.PartRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertPartQuery,
			row.ID, row.SessionID, row.MessageID, row.Role, row.Type, row.Ord, row.Seq, row.CreatedAt,
			row.TextContent, row.TextState,
			row.ReasoningContent, row.ReasoningState,
			row.FileURL, row.FileName, row.FileMediaType,
			row.SourceID, row.SourceURL, row.SourceTitle, row.SourceMediaType, row.SourceFilename,
			row.ToolName, row.ToolCallID, row.ToolState, row.ToolInput, row.ToolOutput, row.ToolError,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert part row: %w", err)
		}
	}
	return nil
}

// ListBySession returns all part rows for a session in reconstruction
// order: batch sequence first, then the part's position in its message.
func (r *PartRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.PartRow, error) {
	query := `
		SELECT
			id, chat_session_id, message_id, role, type, ord, seq, created_at,
			text_text, text_state,
			reasoning_text, reasoning_state,
			file_url, file_filename, file_media_type,
			source_id, source_url, source_title, source_media_type, source_filename,
			tool_name, tool_call_id, tool_state, tool_input, tool_output, tool_error_text
		FROM chat_parts
		WHERE chat_session_id = $1
		ORDER BY seq ASC, ord ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	defer rows.Close()

	var out []domain.PartRow
	for rows.Next() {
		var p domain.PartRow
		var roleStr string
		if err := rows.Scan(
			&p.ID, &p.SessionID, &p.MessageID, &roleStr, &p.Type, &p.Ord, &p.Seq, &p.CreatedAt,
			&p.TextContent, &p.TextState,
			&p.ReasoningContent, &p.ReasoningState,
			&p.FileURL, &p.FileName, &p.FileMediaType,
			&p.SourceID, &p.SourceURL, &p.SourceTitle, &p.SourceMediaType, &p.SourceFilename,
			&p.ToolName, &p.ToolCallID, &p.ToolState, &p.ToolInput, &p.ToolOutput, &p.ToolError,
		); err != nil {
			return nil, fmt.Errorf("failed to scan part row: %w", err)
		}
		p.Role = domain.MessageRole(roleStr)
		out = append(out, p)
	}
	return out, nil
}
