package domain

import "encoding/json"

// StreamState is the per-part lifecycle flag for incrementally produced content.
type StreamState string

const (
	StreamStateStreaming StreamState = "streaming"
	StreamStateDone      StreamState = "done"
)

// ToolState tracks the lifecycle of a tool invocation.
type ToolState string

const (
	ToolStateInputAvailable  ToolState = "input-available"
	ToolStateOutputAvailable ToolState = "output-available"
	ToolStateError           ToolState = "error"
)

// Part type discriminators as stored in the type column.
const (
	PartTypeText           = "text"
	PartTypeReasoning      = "reasoning"
	PartTypeFile           = "file"
	PartTypeSourceURL      = "source-url"
	PartTypeSourceDocument = "source-document"
	PartTypeStepStart      = "step-start"
	toolPartPrefix         = "tool-"
)

// Part is one typed fragment of a message. The set of implementations is
// closed; encoding and decoding switch exhaustively over it.
type Part interface {
	PartType() string
	part()
}

// TextPart is plain assistant or user text.
type TextPart struct {
	Content string      `json:"text"`
	State   StreamState `json:"state,omitempty"`
}

// ReasoningPart is model reasoning that is shown separately from the answer.
type ReasoningPart struct {
	Content string      `json:"text"`
	State   StreamState `json:"state,omitempty"`
}

// FilePart references an uploaded or generated file by URL.
type FilePart struct {
	URL       string `json:"url"`
	Filename  string `json:"filename,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}

// SourceURLPart is a web citation attached by the model.
type SourceURLPart struct {
	SourceID string `json:"source_id,omitempty"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
}

// SourceDocumentPart is a citation of a stored document.
type SourceDocumentPart struct {
	SourceID  string `json:"source_id,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Title     string `json:"title"`
	Filename  string `json:"filename,omitempty"`
}

// ToolPart is one tool invocation and, once finished, its result or error.
// The upstream producer re-emits the same logical call with a growing
// output across steps; CallID keeps those emissions collapsed to one part.
type ToolPart struct {
	Name      string    `json:"tool"`
	CallID    string    `json:"call_id"`
	State     ToolState `json:"state"`
	Input     any       `json:"input,omitempty"`
	Output    any       `json:"output,omitempty"`
	ErrorText string    `json:"error_text,omitempty"`
}

// StepStartPart is a UI-only step boundary marker. It is never persisted.
type StepStartPart struct{}

// UnknownPart carries a part type this version does not recognize. It is
// accepted from the producer without error and excluded from persistence.
type UnknownPart struct {
	RawType string `json:"-"`
	Payload any    `json:"-"`
}

func (TextPart) PartType() string           { return PartTypeText }
func (ReasoningPart) PartType() string      { return PartTypeReasoning }
func (FilePart) PartType() string           { return PartTypeFile }
func (SourceURLPart) PartType() string      { return PartTypeSourceURL }
func (SourceDocumentPart) PartType() string { return PartTypeSourceDocument }
func (p ToolPart) PartType() string         { return toolPartPrefix + p.Name }
func (StepStartPart) PartType() string      { return PartTypeStepStart }
func (p UnknownPart) PartType() string      { return p.RawType }

func (TextPart) part()           {}
func (ReasoningPart) part()      {}
func (FilePart) part()           {}
func (SourceURLPart) part()      {}
func (SourceDocumentPart) part() {}
func (ToolPart) part()           {}
func (StepStartPart) part()      {}
func (UnknownPart) part()        {}

// IsToolType reports whether a type discriminator names a tool part and
// returns the tool name.
func IsToolType(partType string) (string, bool) {
	if len(partType) > len(toolPartPrefix) && partType[:len(toolPartPrefix)] == toolPartPrefix {
		return partType[len(toolPartPrefix):], true
	}
	return "", false
}

// MarshalPart serializes a part with its type tag for API responses.
func MarshalPart(p Part) ([]byte, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	fields["type"] = p.PartType()
	return json.Marshal(fields)
}
