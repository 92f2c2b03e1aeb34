package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Rrens/chat-store/internal/api/middleware"
	"github.com/Rrens/chat-store/internal/api/response"
	"github.com/Rrens/chat-store/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// DocumentHandler handles document upload and management endpoints
type DocumentHandler struct {
	docService     *service.DocumentService
	maxUploadBytes int64
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService *service.DocumentService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{docService: docService, maxUploadBytes: maxUploadBytes}
}

var allowedDocExts = map[string]bool{
	".txt": true, ".md": true, ".csv": true, ".json": true, ".log": true,
}

// Upload stores a text document and indexes it for chat search
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		response.BadRequest(w, "file too large or malformed form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "no file uploaded")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedDocExts[ext] {
		response.BadRequest(w, "invalid file type. Allowed: .txt, .md, .csv, .json, .log")
		return
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "text/plain"
	}

	doc, err := h.docService.Upload(r.Context(), userID, header.Filename, mediaType, file)
	if err != nil {
		response.InternalError(w, "failed to store document")
		return
	}

	response.Created(w, doc)
}

// List returns the user's documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	docs, err := h.docService.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "failed to list documents")
		return
	}

	response.OK(w, docs)
}

// Delete removes a document and its indexed chunks
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	docID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		response.BadRequest(w, "invalid document ID")
		return
	}

	if err := h.docService.Delete(r.Context(), userID, docID); err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			response.NotFound(w, "document not found")
			return
		}
		response.InternalError(w, "failed to delete document")
		return
	}

	response.OK(w, map[string]string{"message": "document deleted"})
}
