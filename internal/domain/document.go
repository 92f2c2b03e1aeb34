package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded file whose text content is chunked for search.
type Document struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Filename  string    `json:"filename"`
	MediaType string    `json:"media_type"`
	SizeBytes int64     `json:"size_bytes"`
	Path      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentChunk is one searchable slice of a document's text.
type DocumentChunk struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Index      int       `json:"index"`
	Content    string    `json:"content"`
}

// ChunkHit is a search result with its parent document's metadata.
type ChunkHit struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	MediaType  string    `json:"media_type"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
}

// DocumentRepository defines the interface for document storage
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document, chunks []DocumentChunk) error
	Get(ctx context.Context, id uuid.UUID) (*Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SearchChunks runs a case-insensitive keyword match over the user's
	// chunks, most recent documents first.
	SearchChunks(ctx context.Context, userID uuid.UUID, query string, limit int) ([]ChunkHit, error)
}
