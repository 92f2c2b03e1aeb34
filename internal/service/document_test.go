package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestChunkText(t *testing.T) {
	docID := uuid.New()

	t.Run("splits into windows", func(t *testing.T) {
		chunks := chunkText(docID, strings.Repeat("a", 25), 10)
		assert.Len(t, chunks, 3)
		assert.Equal(t, 0, chunks[0].Index)
		assert.Equal(t, 1, chunks[1].Index)
		assert.Equal(t, 2, chunks[2].Index)
		assert.Equal(t, strings.Repeat("a", 10), chunks[0].Content)
		assert.Equal(t, strings.Repeat("a", 5), chunks[2].Content)
	})

	t.Run("drops blank chunks, indexes stay contiguous", func(t *testing.T) {
		text := strings.Repeat("a", 10) + strings.Repeat(" ", 10) + strings.Repeat("b", 10)
		chunks := chunkText(docID, text, 10)
		assert.Len(t, chunks, 2)
		assert.Equal(t, 0, chunks[0].Index)
		assert.Equal(t, 1, chunks[1].Index)
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, chunkText(docID, "", 10))
	})

	t.Run("multibyte runes are not split", func(t *testing.T) {
		chunks := chunkText(docID, strings.Repeat("é", 15), 10)
		assert.Len(t, chunks, 2)
		assert.Equal(t, strings.Repeat("é", 10), chunks[0].Content)
	})
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	docRepo := new(MockDocumentRepository)
	svc := NewDocumentService(docRepo, t.TempDir(), 10)

	docRepo.On("Create", ctx, mock.AnythingOfType("*domain.Document"), mock.AnythingOfType("[]domain.DocumentChunk")).
		Run(func(args mock.Arguments) {
			doc := args.Get(1).(*domain.Document)
			chunks := args.Get(2).([]domain.DocumentChunk)
			assert.Equal(t, userID, doc.UserID)
			assert.Equal(t, "notes.txt", doc.Filename)
			assert.Equal(t, int64(25), doc.SizeBytes)
			assert.Len(t, chunks, 3)
		}).
		Return(nil)

	doc, err := svc.Upload(ctx, userID, "notes.txt", "text/plain", strings.NewReader(strings.Repeat("a", 25)))
	assert.NoError(t, err)
	assert.NotNil(t, doc)

	docRepo.AssertExpectations(t)
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	docID := uuid.New()

	t.Run("not owned", func(t *testing.T) {
		docRepo := new(MockDocumentRepository)
		svc := NewDocumentService(docRepo, t.TempDir(), 10)

		docRepo.On("Get", ctx, docID).Return(&domain.Document{ID: docID, UserID: uuid.New()}, nil)

		err := svc.Delete(ctx, userID, docID)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		docRepo := new(MockDocumentRepository)
		svc := NewDocumentService(docRepo, t.TempDir(), 10)

		docRepo.On("Get", ctx, docID).Return(nil, nil)

		err := svc.Delete(ctx, userID, docID)
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("owned", func(t *testing.T) {
		docRepo := new(MockDocumentRepository)
		svc := NewDocumentService(docRepo, t.TempDir(), 10)

		docRepo.On("Get", ctx, docID).Return(&domain.Document{ID: docID, UserID: userID, Path: "/nonexistent/file"}, nil)
		docRepo.On("Delete", ctx, docID).Return(nil)

		assert.NoError(t, svc.Delete(ctx, userID, docID))
		docRepo.AssertExpectations(t)
	})
}
