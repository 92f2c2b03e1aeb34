package persist

import (
	"context"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Upsert(ctx context.Context, session *domain.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.ChatSession, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) Rename(ctx context.Context, id uuid.UUID, title string) error {
	args := m.Called(ctx, id, title)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPartRepository mocks the PartRepository interface
type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) BulkUpsert(ctx context.Context, rows []domain.PartRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockPartRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.PartRow, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PartRow), args.Error(1)
}

// MockHistoryCache mocks the HistoryCache interface
type MockHistoryCache struct {
	mock.Mock
}

func (m *MockHistoryCache) GetRows(ctx context.Context, sessionID uuid.UUID) ([]domain.PartRow, bool) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]domain.PartRow), args.Bool(1)
}

func (m *MockHistoryCache) SetRows(ctx context.Context, sessionID uuid.UUID, rows []domain.PartRow) error {
	args := m.Called(ctx, sessionID, rows)
	return args.Error(0)
}

func (m *MockHistoryCache) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
