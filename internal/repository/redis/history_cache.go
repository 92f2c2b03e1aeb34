package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/google/uuid"
)

const (
	historyCachePrefix = "history:"
	historyCacheTTL    = 5 * time.Minute
)

// HistoryCache caches the ordered part rows of a session in Redis. The
// writer invalidates on every persistence call, so entries only serve
// repeated reads of idle sessions.
type HistoryCache struct {
	client *Client
}

// NewHistoryCache creates a new history cache
func NewHistoryCache(client *Client) *HistoryCache {
	return &HistoryCache{client: client}
}

// GetRows retrieves cached rows for a session. The second return value is
// false on miss or on any decode problem; a bad entry is never an error.
func (c *HistoryCache) GetRows(ctx context.Context, sessionID uuid.UUID) ([]domain.PartRow, bool) {
	key := fmt.Sprintf("%s%s", historyCachePrefix, sessionID.String())

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var rows []domain.PartRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// SetRows caches rows for a session
func (c *HistoryCache) SetRows(ctx context.Context, sessionID uuid.UUID, rows []domain.PartRow) error {
	key := fmt.Sprintf("%s%s", historyCachePrefix, sessionID.String())

	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal history rows: %w", err)
	}

	return c.client.rdb.Set(ctx, key, data, historyCacheTTL).Err()
}

// Invalidate removes the cached rows for a session
func (c *HistoryCache) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	key := fmt.Sprintf("%s%s", historyCachePrefix, sessionID.String())
	return c.client.rdb.Del(ctx, key).Err()
}
