package llm

import "context"

// Turn is one prior exchange in the conversation, flattened to text
type Turn struct {
	Role    string
	Content string
}

// Request contains chat completion parameters
type Request struct {
	Question string
	History  []Turn
	Context  string
}

// Response contains LLM generation result
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Chat generates an assistant reply for the conversation
	Chat(ctx context.Context, req Request, model string) (*Response, error)

	// GenerateTitle produces a short session title from the first question
	GenerateTitle(ctx context.Context, question string, model string) (string, error)
}
