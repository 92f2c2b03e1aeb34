package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository implements domain.DocumentRepository
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{pool: db.Pool}
}

// Create inserts the document and its chunks in one transaction.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document, chunks []domain.DocumentChunk) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (id, user_id, filename, media_type, size_bytes, path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, doc.ID, doc.UserID, doc.Filename, doc.MediaType, doc.SizeBytes, doc.Path, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	for _, chunk := range chunks {
		_, err = tx.Exec(ctx, `
			INSERT INTO document_chunks (id, document_id, chunk_index, content)
			VALUES ($1, $2, $3, $4)
		`, chunk.ID, chunk.DocumentID, chunk.Index, chunk.Content)
		if err != nil {
			return fmt.Errorf("failed to create chunk: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *DocumentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `
		SELECT id, user_id, filename, media_type, size_bytes, path, created_at
		FROM documents
		WHERE id = $1
	`
	var d domain.Document
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.UserID, &d.Filename, &d.MediaType, &d.SizeBytes, &d.Path, &d.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

func (r *DocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Document, error) {
	query := `
		SELECT id, user_id, filename, media_type, size_bytes, path, created_at
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Filename, &d.MediaType, &d.SizeBytes, &d.Path, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// Delete removes the document; chunks cascade.
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// SearchChunks runs a case-insensitive keyword match over the user's
// document chunks.
func (r *DocumentRepository) SearchChunks(ctx context.Context, userID uuid.UUID, query string, limit int) ([]domain.ChunkHit, error) {
	sql := `
		SELECT c.document_id, d.filename, d.media_type, c.chunk_index, c.content
		FROM document_chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE d.user_id = $1 AND c.content ILIKE '%' || $2 || '%'
		ORDER BY d.created_at DESC, c.chunk_index ASC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, sql, userID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var hits []domain.ChunkHit
	for rows.Next() {
		var h domain.ChunkHit
		if err := rows.Scan(&h.DocumentID, &h.Filename, &h.MediaType, &h.ChunkIndex, &h.Content); err != nil {
			return nil, fmt.Errorf("failed to scan chunk hit: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, nil
}
