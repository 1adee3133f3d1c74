package handler

import (
	"encoding/json"
	"net/http"

	"mini-shop/internal/chat"

	"github.com/rs/zerolog"
)

// ChatHandler exposes the scripted assistant over HTTP.
type ChatHandler struct {
	engine *chat.Engine
	logger zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(engine *chat.Engine, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		engine: engine,
		logger: logger.With().Str("handler", "chat").Logger(),
	}
}

// sendRequest is the body of a POST message request.
type sendRequest struct {
	Text string `json:"text"`
}

// sendResponse returns the catalogue filter the message resolved to.
type sendResponse struct {
	Filter string `json:"filter"`
}

// Messages routes GET and POST /api/chat/messages.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.engine.Messages())
	case http.MethodPost:
		h.send(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
	}
}

func (h *ChatHandler) send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "message text is required", h.logger)
		return
	}

	filter, err := h.engine.Send(req.Text)
	if err != nil {
		if writeDomainError(w, err, h.logger) {
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to send message", h.logger)
		return
	}

	writeJSON(w, http.StatusAccepted, sendResponse{Filter: filter})
}

// Reset handles POST /api/chat/reset requests.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	h.engine.Reset()
	w.WriteHeader(http.StatusNoContent)
}
