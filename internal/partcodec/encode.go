// Package partcodec converts between the in-memory Part union and the wide
// chat_parts row shape. The tagged-union-as-wide-table mapping lives only
// here; nothing else in the codebase touches raw nullable columns.
package partcodec

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/Rrens/chat-store/internal/sanitize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// rowNamespace is the UUIDv5 namespace for derived part-row ids. Derived ids
// make re-encoding the same logical part during streaming land on the same
// row, so the bulk upsert updates in place instead of duplicating.
var rowNamespace = uuid.MustParse("8f9f1dd4-6701-4b92-9c10-2a4f35e2c7b1")

// Encode maps one part to its storage row. The second return value is false
// when the part produces no row: empty streaming increments, parts missing
// their required field, step markers and unknown types are all skipped
// rather than treated as errors.
func Encode(sessionID uuid.UUID, msg domain.Message, part domain.Part, ord int, seq int64, now time.Time) (domain.PartRow, bool) {
	row := domain.PartRow{
		SessionID: sessionID,
		MessageID: msg.ID,
		Role:      msg.Role,
		Type:      part.PartType(),
		Ord:       ord,
		Seq:       seq,
		CreatedAt: now,
	}

	switch p := part.(type) {
	case domain.TextPart:
		if p.Content == "" {
			return domain.PartRow{}, false
		}
		row.ID = derivedID(msg.ID, domain.PartTypeText, strconv.Itoa(ord))
		row.TextContent = strptr(sanitize.String(p.Content))
		row.TextState = strptr(string(streamState(p.State)))

	case domain.ReasoningPart:
		if p.Content == "" {
			return domain.PartRow{}, false
		}
		row.ID = derivedID(msg.ID, domain.PartTypeReasoning, strconv.Itoa(ord))
		row.ReasoningContent = strptr(sanitize.String(p.Content))
		row.ReasoningState = strptr(string(streamState(p.State)))

	case domain.FilePart:
		if p.URL == "" {
			return domain.PartRow{}, false
		}
		row.ID = derivedID(msg.ID, domain.PartTypeFile, p.URL)
		row.FileURL = strptr(sanitize.String(p.URL))
		row.FileName = optstr(p.Filename)
		row.FileMediaType = optstr(p.MediaType)

	case domain.SourceURLPart:
		if p.URL == "" {
			return domain.PartRow{}, false
		}
		sourceID := p.SourceID
		if sourceID == "" {
			// Source ids are provider-optional.
			sourceID = uuid.New().String()
		}
		row.ID = derivedID(msg.ID, domain.PartTypeSourceURL, sourceID)
		row.SourceID = strptr(sourceID)
		row.SourceURL = strptr(sanitize.String(p.URL))
		row.SourceTitle = optstr(p.Title)

	case domain.SourceDocumentPart:
		if p.Title == "" {
			return domain.PartRow{}, false
		}
		sourceID := p.SourceID
		if sourceID == "" {
			sourceID = uuid.New().String()
		}
		row.ID = derivedID(msg.ID, domain.PartTypeSourceDocument, sourceID)
		row.SourceID = strptr(sourceID)
		row.SourceTitle = strptr(sanitize.String(p.Title))
		row.SourceMediaType = optstr(p.MediaType)
		row.SourceFilename = optstr(p.Filename)

	case domain.ToolPart:
		if p.CallID == "" {
			return domain.PartRow{}, false
		}
		// A well-formed call id identifies the logical call on its own.
		// Otherwise derive one scoped to this call so repeated emissions of
		// the same call across steps reuse one row.
		if callUUID, err := uuid.Parse(p.CallID); err == nil {
			row.ID = callUUID
		} else {
			row.ID = derivedID(msg.ID, part.PartType(), p.CallID)
		}
		row.ToolName = strptr(p.Name)
		row.ToolCallID = strptr(sanitize.String(p.CallID))
		row.ToolState = strptr(string(p.State))
		row.ToolInput = marshalJSON(p.Input)
		row.ToolOutput = marshalJSON(p.Output)
		if p.ErrorText != "" {
			row.ToolError = strptr(sanitize.String(p.ErrorText))
		}

	case domain.StepStartPart:
		// UI marker, carries no persisted meaning.
		return domain.PartRow{}, false

	default:
		log.Warn().
			Str("part_type", part.PartType()).
			Str("message_id", msg.ID).
			Msg("skipping part of unrecognized type")
		return domain.PartRow{}, false
	}

	return row, true
}

func derivedID(messageID, partType, discriminator string) uuid.UUID {
	return uuid.NewSHA1(rowNamespace, []byte(messageID+"\x00"+partType+"\x00"+discriminator))
}

func streamState(s domain.StreamState) domain.StreamState {
	if s == "" {
		return domain.StreamStateDone
	}
	return s
}

func strptr(s string) *string {
	return &s
}

func optstr(s string) *string {
	if s == "" {
		return nil
	}
	return strptr(sanitize.String(s))
}

func marshalJSON(v any) []byte {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(sanitize.Value(v))
	if err != nil {
		// Unserializable tool payloads are a producer bug; drop the payload
		// rather than the whole part.
		log.Warn().Err(err).Msg("failed to marshal tool payload")
		return nil
	}
	return data
}
