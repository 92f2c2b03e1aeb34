package persist

import (
	"context"
	"errors"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/Rrens/chat-store/internal/partcodec"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned for absent sessions and for read failures alike;
// the API layer does not distinguish the two.
var ErrNotFound = errors.New("chat session not found")

// SessionHistory is a session with its reconstructed message tree.
type SessionHistory struct {
	Session  domain.ChatSession `json:"session"`
	Messages []domain.Message   `json:"messages"`
}

// Fetcher reads a session's rows in reconstruction order and rebuilds the
// message tree.
type Fetcher struct {
	sessions domain.SessionRepository
	parts    domain.PartRepository
	cache    HistoryCache
}

// NewFetcher creates a fetcher. cache may be nil.
func NewFetcher(sessions domain.SessionRepository, parts domain.PartRepository, cache HistoryCache) *Fetcher {
	return &Fetcher{
		sessions: sessions,
		parts:    parts,
		cache:    cache,
	}
}

// FetchSession loads session metadata and all part rows ordered by
// (seq, ord), then reconstructs the messages.
func (f *Fetcher) FetchSession(ctx context.Context, sessionID uuid.UUID) (*SessionHistory, error) {
	session, err := f.sessions.Get(ctx, sessionID)
	if err != nil || session == nil {
		return nil, ErrNotFound
	}

	rows, cached := f.cachedRows(ctx, sessionID)
	if !cached {
		rows, err = f.parts.ListBySession(ctx, sessionID)
		if err != nil {
			log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to list part rows")
			return nil, ErrNotFound
		}
		if f.cache != nil {
			if err := f.cache.SetRows(ctx, sessionID, rows); err != nil {
				log.Warn().Err(err).Msg("failed to cache history rows")
			}
		}
	}

	return &SessionHistory{
		Session:  *session,
		Messages: partcodec.Reconstruct(rows),
	}, nil
}

func (f *Fetcher) cachedRows(ctx context.Context, sessionID uuid.UUID) ([]domain.PartRow, bool) {
	if f.cache == nil {
		return nil, false
	}
	return f.cache.GetRows(ctx, sessionID)
}
