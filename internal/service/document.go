package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Rrens/chat-store/internal/domain"
	"github.com/Rrens/chat-store/internal/sanitize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrDocumentNotFound is returned when a document does not exist or belongs
// to another user.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentService stores uploaded files and indexes their text for the chat
// search tool.
type DocumentService struct {
	docRepo   domain.DocumentRepository
	uploadDir string
	chunkSize int
}

// NewDocumentService creates a new document service
func NewDocumentService(docRepo domain.DocumentRepository, uploadDir string, chunkSize int) *DocumentService {
	os.MkdirAll(uploadDir, 0755)
	if chunkSize <= 0 {
		chunkSize = 1500
	}
	return &DocumentService{
		docRepo:   docRepo,
		uploadDir: uploadDir,
		chunkSize: chunkSize,
	}
}

// Upload saves the file to disk, chunks its text content, and stores both in
// one transaction.
func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, filename, mediaType string, src io.Reader) (*domain.Document, error) {
	docID := uuid.New()

	uniqueName := fmt.Sprintf("%s%s", docID.String(), filepath.Ext(filename))
	destPath := filepath.Join(s.uploadDir, uniqueName)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	size, err := io.Copy(dst, src)
	dst.Close()
	if err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	content, err := os.ReadFile(destPath)
	if err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("failed to read saved file: %w", err)
	}

	doc := &domain.Document{
		ID:        docID,
		UserID:    userID,
		Filename:  filename,
		MediaType: mediaType,
		SizeBytes: size,
		Path:      destPath,
		CreatedAt: time.Now(),
	}

	chunks := chunkText(docID, sanitize.String(string(content)), s.chunkSize)

	if err := s.docRepo.Create(ctx, doc, chunks); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	return doc, nil
}

// List returns the user's documents, newest first.
func (s *DocumentService) List(ctx context.Context, userID uuid.UUID) ([]domain.Document, error) {
	return s.docRepo.ListByUser(ctx, userID)
}

// Delete removes a document, its chunks, and its file on disk.
func (s *DocumentService) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	doc, err := s.docRepo.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil || doc.UserID != userID {
		return ErrDocumentNotFound
	}

	if err := s.docRepo.Delete(ctx, docID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := os.Remove(doc.Path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", doc.Path).Msg("failed to remove document file")
	}
	return nil
}

// Search runs a keyword search over the user's document chunks.
func (s *DocumentService) Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]domain.ChunkHit, error) {
	return s.docRepo.SearchChunks(ctx, userID, query, limit)
}

// chunkText splits text into fixed-size rune windows. Whitespace-only chunks
// are dropped; indexes stay contiguous over the kept chunks.
func chunkText(docID uuid.UUID, text string, size int) []domain.DocumentChunk {
	runes := []rune(text)

	var chunks []domain.DocumentChunk
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		content := string(runes[start:end])
		if isBlank(content) {
			continue
		}
		chunks = append(chunks, domain.DocumentChunk{
			ID:         uuid.New(),
			DocumentID: docID,
			Index:      len(chunks),
			Content:    content,
		})
	}
	return chunks
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
