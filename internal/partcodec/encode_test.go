package partcodec

import (
	"testing"
	"time"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSession = uuid.MustParse("11111111-2222-3333-4444-555555555555")
	testNow     = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func userMsg(id string, parts ...domain.Part) domain.Message {
	return domain.Message{ID: id, Role: domain.RoleUser, Parts: parts}
}

func assistantMsg(id string, parts ...domain.Part) domain.Message {
	return domain.Message{ID: id, Role: domain.RoleAssistant, Parts: parts}
}

func TestEncode_Text(t *testing.T) {
	msg := userMsg("u1", domain.TextPart{Content: "Hi"})

	row, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	require.True(t, ok)

	assert.Equal(t, domain.RoleUser, row.Role)
	assert.Equal(t, "u1", row.MessageID)
	assert.Equal(t, domain.PartTypeText, row.Type)
	assert.Equal(t, 0, row.Ord)
	require.NotNil(t, row.TextContent)
	assert.Equal(t, "Hi", *row.TextContent)
	require.NotNil(t, row.TextState)
	assert.Equal(t, string(domain.StreamStateDone), *row.TextState)
	assert.Nil(t, row.ToolCallID)
}

func TestEncode_EmptyTextSkipped(t *testing.T) {
	msg := assistantMsg("a1", domain.TextPart{Content: "", State: domain.StreamStateStreaming})
	_, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	assert.False(t, ok, "empty streaming increments emit no row")

	msg = assistantMsg("a1", domain.ReasoningPart{Content: ""})
	_, ok = Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	assert.False(t, ok)
}

func TestEncode_StableIDAcrossStreamingSteps(t *testing.T) {
	first := assistantMsg("a1", domain.TextPart{Content: "Hel", State: domain.StreamStateStreaming})
	second := assistantMsg("a1", domain.TextPart{Content: "Hello", State: domain.StreamStateDone})

	r1, ok := Encode(testSession, first, first.Parts[0], 0, 1, testNow)
	require.True(t, ok)
	r2, ok := Encode(testSession, second, second.Parts[0], 0, 9, testNow.Add(time.Second))
	require.True(t, ok)

	assert.Equal(t, r1.ID, r2.ID, "same logical part must map to the same row id")
	assert.Equal(t, "Hello", *r2.TextContent)
	assert.Equal(t, string(domain.StreamStateDone), *r2.TextState)
}

func TestEncode_FileRequiresURL(t *testing.T) {
	msg := userMsg("u1", domain.FilePart{Filename: "a.pdf"})
	_, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	assert.False(t, ok)

	msg = userMsg("u1", domain.FilePart{URL: "https://files/a.pdf", Filename: "a.pdf", MediaType: "application/pdf"})
	row, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	require.True(t, ok)
	assert.Equal(t, "https://files/a.pdf", *row.FileURL)
	assert.Equal(t, "a.pdf", *row.FileName)
}

func TestEncode_SourceGeneratesMissingID(t *testing.T) {
	msg := assistantMsg("a1", domain.SourceURLPart{URL: "https://example.com", Title: "Example"})
	row, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	require.True(t, ok)
	require.NotNil(t, row.SourceID)
	_, err := uuid.Parse(*row.SourceID)
	assert.NoError(t, err, "generated source id is a uuid")

	msg = assistantMsg("a1", domain.SourceURLPart{SourceID: "src-7", URL: "https://example.com"})
	row, ok = Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	require.True(t, ok)
	assert.Equal(t, "src-7", *row.SourceID)
}

func TestEncode_SourceDocumentRequiresTitle(t *testing.T) {
	msg := assistantMsg("a1", domain.SourceDocumentPart{MediaType: "application/pdf"})
	_, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	assert.False(t, ok)
}

func TestEncode_ToolCallIDHandling(t *testing.T) {
	t.Run("uuid call id used directly", func(t *testing.T) {
		callID := uuid.New().String()
		msg := assistantMsg("a1", domain.ToolPart{
			Name:   "searchUserDocument",
			CallID: callID,
			State:  domain.ToolStateInputAvailable,
			Input:  map[string]any{"query": "tax report"},
		})
		row, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
		require.True(t, ok)
		assert.Equal(t, callID, row.ID.String())
		assert.Equal(t, "tool-searchUserDocument", row.Type)
	})

	t.Run("opaque call id derives a stable uuid", func(t *testing.T) {
		part := domain.ToolPart{Name: "searchUserDocument", CallID: "call_abc123", State: domain.ToolStateInputAvailable}
		msg := assistantMsg("a1", part)

		r1, ok := Encode(testSession, msg, part, 0, 1, testNow)
		require.True(t, ok)
		r2, ok := Encode(testSession, msg, part, 0, 2, testNow)
		require.True(t, ok)
		assert.Equal(t, r1.ID, r2.ID, "re-emitted call reuses one row")
	})

	t.Run("missing call id skipped", func(t *testing.T) {
		msg := assistantMsg("a1", domain.ToolPart{Name: "searchUserDocument"})
		_, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
		assert.False(t, ok)
	})

	t.Run("nil output stays null", func(t *testing.T) {
		msg := assistantMsg("a1", domain.ToolPart{
			Name:   "searchUserDocument",
			CallID: "call_x",
			State:  domain.ToolStateInputAvailable,
			Input:  map[string]any{"query": "q"},
		})
		row, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
		require.True(t, ok)
		assert.Nil(t, row.ToolOutput)
		assert.NotNil(t, row.ToolInput)
	})
}

func TestEncode_StepStartAndUnknownSkipped(t *testing.T) {
	msg := assistantMsg("a1", domain.StepStartPart{})
	_, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	assert.False(t, ok)

	msg = assistantMsg("a1", domain.UnknownPart{RawType: "something-future", Payload: map[string]any{"x": 1}})
	assert.NotPanics(t, func() {
		_, ok = Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	})
	assert.False(t, ok)
}

func TestEncode_SanitizesControlCharacters(t *testing.T) {
	msg := userMsg("u1", domain.TextPart{Content: "a\x00b\nc"})
	row, ok := Encode(testSession, msg, msg.Parts[0], 0, 1, testNow)
	require.True(t, ok)
	assert.Equal(t, "ab\nc", *row.TextContent)

	tool := domain.ToolPart{
		Name:   "searchUserDocument",
		CallID: "call_1",
		State:  domain.ToolStateOutputAvailable,
		Input:  map[string]any{"query": "x\x00y"},
	}
	row, ok = Encode(testSession, assistantMsg("a1", tool), tool, 1, 2, testNow)
	require.True(t, ok)
	assert.JSONEq(t, `{"query":"xy"}`, string(row.ToolInput))
}
