// Package persist holds the incremental write and fetch paths for chat
// history: session metadata plus the encoded part rows of every message.
package persist

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/Rrens/chat-store/internal/partcodec"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// HistoryCache caches the ordered part rows of a session. Implemented by
// the redis repository; nil-able, the pipeline works without it.
type HistoryCache interface {
	GetRows(ctx context.Context, sessionID uuid.UUID) ([]domain.PartRow, bool)
	SetRows(ctx context.Context, sessionID uuid.UUID, rows []domain.PartRow) error
	Invalidate(ctx context.Context, sessionID uuid.UUID) error
}

// Writer persists message snapshots emitted at each streaming step. Calls
// are idempotent per part: the encoder derives stable row ids, so
// re-persisting a turn as its parts grow updates rows in place.
type Writer struct {
	sessions domain.SessionRepository
	parts    domain.PartRepository
	cache    HistoryCache
	seq      atomic.Int64
}

// NewWriter creates a writer. cache may be nil.
func NewWriter(sessions domain.SessionRepository, parts domain.PartRepository, cache HistoryCache) *Writer {
	w := &Writer{
		sessions: sessions,
		parts:    parts,
		cache:    cache,
	}
	// Seed so that rows written after a restart sort after rows from the
	// previous process. Within a process the counter is strictly monotonic,
	// which is what batch ordering actually relies on.
	w.seq.Store(time.Now().UnixNano())
	return w
}

// Persist upserts the session row, then encodes and bulk-upserts every part
// of every eligible message.
//
// User messages are written only when firstStep is true: the producer
// re-sends the full message list on every assistant step and the user's
// turn must not be re-encoded each time. Assistant messages take
// assistantMessageID in place of their own id, collapsing the per-step ids
// the producer mints to one logical turn.
//
// Storage errors are logged and returned; the caller owns the retry
// decision. Everything skippable (empty session id, empty batch, individual
// bad parts) is handled locally and never fails the call.
func (w *Writer) Persist(ctx context.Context, sessionID, userID uuid.UUID, messages []domain.Message, firstStep bool, assistantMessageID string) error {
	if sessionID == uuid.Nil {
		log.Warn().Msg("persist called before a session exists, skipping")
		return nil
	}

	now := time.Now()
	session := &domain.ChatSession{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Session upsert is issued and awaited before the part batch. The two
	// writes are not transactional; a crash in between leaves a session
	// with no parts, which the next successful call repairs.
	if err := w.sessions.Upsert(ctx, session); err != nil {
		log.Error().Err(err).Str("session_id", sessionID.String()).Msg("failed to upsert session")
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	var rows []domain.PartRow
	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleUser:
			if !firstStep {
				continue
			}
		case domain.RoleAssistant:
			if assistantMessageID != "" {
				msg.ID = assistantMessageID
			}
		}

		for ord, part := range msg.Parts {
			row, ok := partcodec.Encode(sessionID, msg, part, ord, w.seq.Add(1), now)
			if !ok {
				continue
			}
			rows = append(rows, row)
		}
	}

	// Nothing to persist is not a failed write.
	if len(rows) == 0 {
		return nil
	}

	if err := w.parts.BulkUpsert(ctx, rows); err != nil {
		log.Error().Err(err).
			Str("session_id", sessionID.String()).
			Int("rows", len(rows)).
			Msg("failed to upsert part rows")
		return fmt.Errorf("failed to upsert parts: %w", err)
	}

	if w.cache != nil {
		if err := w.cache.Invalidate(ctx, sessionID); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate history cache")
		}
	}

	return nil
}
