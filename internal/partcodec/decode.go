package partcodec

import (
	"encoding/json"

	"github.com/Rrens/chat-store/internal/domain"
)

// Reconstruct rebuilds the ordered message tree from part rows. Rows must
// arrive pre-sorted by (seq, ord); this function only groups, it does not
// sort. It is total: rows of unknown type or missing their required field
// are dropped, never surfaced as errors, so a session with partially
// written rows from an interrupted stream still reconstructs.
func Reconstruct(rows []domain.PartRow) []domain.Message {
	messages := []domain.Message{}
	var current *domain.Message

	for _, row := range rows {
		if current == nil || current.ID != row.MessageID {
			if current != nil {
				messages = append(messages, *current)
			}
			current = &domain.Message{
				ID:   row.MessageID,
				Role: row.Role,
			}
		}

		part, ok := decodeRow(row)
		if !ok {
			continue
		}
		current.Parts = append(current.Parts, part)
	}

	if current != nil {
		messages = append(messages, *current)
	}

	return messages
}

// decodeRow is the inverse of Encode for a single row.
func decodeRow(row domain.PartRow) (domain.Part, bool) {
	if name, ok := domain.IsToolType(row.Type); ok {
		if row.ToolCallID == nil {
			return nil, false
		}
		p := domain.ToolPart{
			Name:   name,
			CallID: *row.ToolCallID,
			State:  domain.ToolState(deref(row.ToolState)),
			Input:  unmarshalJSON(row.ToolInput),
			Output: unmarshalJSON(row.ToolOutput),
		}
		if row.ToolError != nil {
			p.ErrorText = *row.ToolError
		}
		return p, true
	}

	switch row.Type {
	case domain.PartTypeText:
		if row.TextContent == nil {
			return nil, false
		}
		return domain.TextPart{
			Content: *row.TextContent,
			State:   domain.StreamState(deref(row.TextState)),
		}, true

	case domain.PartTypeReasoning:
		if row.ReasoningContent == nil {
			return nil, false
		}
		return domain.ReasoningPart{
			Content: *row.ReasoningContent,
			State:   domain.StreamState(deref(row.ReasoningState)),
		}, true

	case domain.PartTypeFile:
		if row.FileURL == nil {
			return nil, false
		}
		return domain.FilePart{
			URL:       *row.FileURL,
			Filename:  deref(row.FileName),
			MediaType: deref(row.FileMediaType),
		}, true

	case domain.PartTypeSourceURL:
		if row.SourceURL == nil {
			return nil, false
		}
		return domain.SourceURLPart{
			SourceID: deref(row.SourceID),
			URL:      *row.SourceURL,
			Title:    deref(row.SourceTitle),
		}, true

	case domain.PartTypeSourceDocument:
		if row.SourceTitle == nil {
			return nil, false
		}
		return domain.SourceDocumentPart{
			SourceID:  deref(row.SourceID),
			MediaType: deref(row.SourceMediaType),
			Title:     *row.SourceTitle,
			Filename:  deref(row.SourceFilename),
		}, true

	default:
		return nil, false
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func unmarshalJSON(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return v
}
