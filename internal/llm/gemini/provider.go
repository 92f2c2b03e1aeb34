package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/chat-store/internal/config"
	"github.com/Rrens/chat-store/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func (p *Provider) Chat(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	if model == "" {
		model = p.DefaultModel()
	}

	prompt := llm.BuildChatPrompt(req)

	start := time.Now()
	output, tokensUsed, err := p.generate(ctx, model, prompt, 0.7)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return nil, err
	}

	return &llm.Response{
		Text:       output,
		Model:      model,
		TokensUsed: tokensUsed,
		LatencyMs:  latency,
	}, nil
}

func (p *Provider) GenerateTitle(ctx context.Context, question string, model string) (string, error) {
	if model == "" {
		model = p.DefaultModel()
	}

	output, _, err := p.generate(ctx, model, llm.BuildTitlePrompt(question), 0.2)
	if err != nil {
		return "", err
	}
	return llm.CleanTitle(output), nil
}

func (p *Provider) generate(ctx context.Context, model, prompt string, temperature float32) (string, int, error) {
	if !p.IsConfigured() {
		return "", 0, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	generativeModel.Temperature = &temperature

	resp, err := generativeModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", 0, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", 0, fmt.Errorf("empty response from gemini")
	}

	var output string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output += string(text)
		}
	}

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return output, tokensUsed, nil
}
