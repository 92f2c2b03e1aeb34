package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rrens/chat-store/internal/api/middleware"
	"github.com/Rrens/chat-store/internal/api/response"
	"github.com/Rrens/chat-store/internal/domain"
	"github.com/Rrens/chat-store/internal/persist"
	"github.com/Rrens/chat-store/internal/service"
)

// ChatHandler handles chat endpoints
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat runs one conversational turn
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	resp, err := h.chatService.Chat(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, persist.ErrNotFound) {
			response.NotFound(w, "session not found")
			return
		}
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, resp)
}
