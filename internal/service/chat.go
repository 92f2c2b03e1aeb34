package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/Rrens/chat-store/internal/llm"
	"github.com/Rrens/chat-store/internal/persist"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	documentSearchTool = "searchUserDocument"

	// historyTurns bounds how much of the transcript is replayed to the LLM.
	historyTurns = 10
)

// ChatService runs one conversational turn end to end: load history, call
// the LLM, and persist every intermediate step so a crash mid-turn loses at
// most the unfinished tail.
type ChatService struct {
	sessionRepo domain.SessionRepository
	docRepo     domain.DocumentRepository
	writer      *persist.Writer
	fetcher     *persist.Fetcher
	llmRouter   *llm.Router
	searchHits  int
}

// NewChatService creates a new chat service
func NewChatService(
	sessionRepo domain.SessionRepository,
	docRepo domain.DocumentRepository,
	writer *persist.Writer,
	fetcher *persist.Fetcher,
	llmRouter *llm.Router,
	searchHits int,
) *ChatService {
	if searchHits <= 0 {
		searchHits = 5
	}
	return &ChatService{
		sessionRepo: sessionRepo,
		docRepo:     docRepo,
		writer:      writer,
		fetcher:     fetcher,
		llmRouter:   llmRouter,
		searchHits:  searchHits,
	}
}

// Chat processes one user question and returns the assistant's reply.
func (s *ChatService) Chat(ctx context.Context, userID uuid.UUID, req domain.ChatRequest) (*domain.ChatResponse, error) {
	startTime := time.Now()

	sessionID := req.SessionID
	isNewSession := sessionID == uuid.Nil

	var history []domain.Message
	if isNewSession {
		sessionID = uuid.New()
		session := &domain.ChatSession{
			ID:        sessionID,
			UserID:    userID,
			Title:     "New Chat",
			CreatedAt: startTime,
			UpdatedAt: startTime,
		}
		if err := s.sessionRepo.Upsert(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
	} else {
		existing, err := s.fetcher.FetchSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if existing.Session.UserID != userID {
			return nil, persist.ErrNotFound
		}
		history = existing.Messages
	}

	provider, err := s.llmRouter.GetProvider(req.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to get LLM provider: %w", err)
	}
	model := req.Model
	if model == "" {
		model = provider.DefaultModel()
	}

	// The user's turn is written once, on the first step. Subsequent
	// persistence calls for this turn carry it again but skip re-encoding.
	userMsg := domain.Message{
		ID:    uuid.NewString(),
		Role:  domain.RoleUser,
		Parts: []domain.Part{domain.TextPart{Content: req.Question, State: domain.StreamStateDone}},
	}
	assistantID := uuid.NewString()

	if err := s.writer.Persist(ctx, sessionID, userID, []domain.Message{userMsg}, true, assistantID); err != nil {
		return nil, err
	}

	var assistantParts []domain.Part
	var docContext string

	if req.SearchDocuments {
		toolPart := domain.ToolPart{
			Name:   documentSearchTool,
			CallID: uuid.NewString(),
			State:  domain.ToolStateInputAvailable,
			Input:  map[string]any{"query": req.Question},
		}
		assistantParts = append(assistantParts, toolPart)
		s.persistStep(ctx, sessionID, userID, userMsg, assistantID, assistantParts)

		hits, err := s.docRepo.SearchChunks(ctx, userID, req.Question, s.searchHits)
		if err != nil {
			toolPart.State = domain.ToolStateError
			toolPart.ErrorText = err.Error()
			log.Error().Err(err).Str("session_id", sessionID.String()).Msg("document search failed")
		} else {
			toolPart.State = domain.ToolStateOutputAvailable
			toolPart.Output = map[string]any{"hits": hits}
			docContext = formatChunkHits(hits)
		}
		assistantParts[len(assistantParts)-1] = toolPart
		for _, hit := range hits {
			assistantParts = append(assistantParts, domain.SourceDocumentPart{
				SourceID:  hit.DocumentID.String(),
				MediaType: hit.MediaType,
				Title:     hit.Filename,
				Filename:  hit.Filename,
			})
		}
		s.persistStep(ctx, sessionID, userID, userMsg, assistantID, assistantParts)
	}

	llmResp, err := provider.Chat(ctx, llm.Request{
		Question: req.Question,
		History:  historyToTurns(history, historyTurns),
		Context:  docContext,
	}, model)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reply: %w", err)
	}

	assistantParts = append(assistantParts, domain.TextPart{
		Content: llmResp.Text,
		State:   domain.StreamStateDone,
	})

	assistantMsg := domain.Message{
		ID:    assistantID,
		Role:  domain.RoleAssistant,
		Parts: assistantParts,
	}
	if err := s.writer.Persist(ctx, sessionID, userID, []domain.Message{userMsg, assistantMsg}, false, assistantID); err != nil {
		return nil, err
	}

	if isNewSession {
		go s.generateSessionTitle(context.Background(), sessionID, req.Question, req.Provider, model)
	}

	return &domain.ChatResponse{
		SessionID: sessionID,
		Message:   assistantMsg,
		Metadata: &domain.ChatMetadata{
			Provider:        provider.Name(),
			Model:           llmResp.Model,
			TokensUsed:      llmResp.TokensUsed,
			LLMLatencyMs:    llmResp.LatencyMs,
			ExecutionTimeMs: time.Since(startTime).Milliseconds(),
		},
	}, nil
}

// persistStep writes an intermediate snapshot of the assistant's turn.
// Failures are logged, not returned; the final persist call is the one that
// must succeed.
func (s *ChatService) persistStep(ctx context.Context, sessionID, userID uuid.UUID, userMsg domain.Message, assistantID string, parts []domain.Part) {
	msg := domain.Message{
		ID:    uuid.NewString(),
		Role:  domain.RoleAssistant,
		Parts: parts,
	}
	if err := s.writer.Persist(ctx, sessionID, userID, []domain.Message{userMsg, msg}, false, assistantID); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("failed to persist intermediate step")
	}
}

// GetSessionHistory returns a session with its reconstructed messages.
func (s *ChatService) GetSessionHistory(ctx context.Context, userID, sessionID uuid.UUID) (*persist.SessionHistory, error) {
	history, err := s.fetcher.FetchSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if history.Session.UserID != userID {
		return nil, persist.ErrNotFound
	}
	return history, nil
}

// ListSessions lists the user's chat sessions, most recently active first.
func (s *ChatService) ListSessions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatSession, error) {
	return s.sessionRepo.ListByUser(ctx, userID, limit, offset)
}

// RenameSession sets a session title chosen by the user.
func (s *ChatService) RenameSession(ctx context.Context, userID, sessionID uuid.UUID, title string) error {
	if err := s.ownsSession(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.sessionRepo.Rename(ctx, sessionID, title)
}

// DeleteSession removes a session and, via cascade, all of its parts.
func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if err := s.ownsSession(ctx, userID, sessionID); err != nil {
		return err
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *ChatService) ownsSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return persist.ErrNotFound
	}
	return nil
}

// generateSessionTitle generates and stores a title for a new session
func (s *ChatService) generateSessionTitle(ctx context.Context, sessionID uuid.UUID, question, providerName, model string) {
	provider, err := s.llmRouter.GetProvider(providerName)
	if err != nil {
		log.Error().Err(err).Str("provider", providerName).Msg("failed to get LLM provider for title generation")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	title, err := provider.GenerateTitle(ctx, question, model)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session title")
		return
	}
	if title == "" {
		return
	}

	if err := s.sessionRepo.Rename(ctx, sessionID, title); err != nil {
		log.Error().Err(err).Msg("failed to update session title")
		return
	}

	log.Info().Str("session_id", sessionID.String()).Str("title", title).Msg("updated session title")
}

func historyToTurns(messages []domain.Message, limit int) []llm.Turn {
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}

	var turns []llm.Turn
	for _, msg := range messages {
		if msg.Role != domain.RoleUser && msg.Role != domain.RoleAssistant {
			continue
		}
		text := msg.Text()
		if text == "" {
			continue
		}
		turns = append(turns, llm.Turn{Role: string(msg.Role), Content: text})
	}
	return turns
}

func formatChunkHits(hits []domain.ChunkHit) string {
	if len(hits) == 0 {
		return ""
	}
	var b strings.Builder
	for i, hit := range hits {
		fmt.Fprintf(&b, "[%d] %s (chunk %d):\n%s\n\n", i+1, hit.Filename, hit.ChunkIndex, hit.Content)
	}
	return strings.TrimSpace(b.String())
}
