package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/swingmap/internal/core/domain"
	"github.com/vncsmyrnk/swingmap/internal/core/ports"
	"go.uber.org/zap"
)

type MessageHandler struct {
	service ports.MessageService
	logger  *zap.Logger
}

func NewMessageHandler(service ports.MessageService, logger *zap.Logger) *MessageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageHandler{
		service: service,
		logger:  logger,
	}
}

type createMessageRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Channel string `json:"channel"`
}

type classifyRequest struct {
	Content string `json:"content"`
}

type reviewRequest struct {
	Note string `json:"note"`
}

func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.service.Create(r.Context(), ports.CreateMessageInput{
		Title:   req.Title,
		Content: req.Content,
		Channel: req.Channel,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	message, err := h.service.GetMessage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message)
}

// Classify analyses content without storing a message.
func (h *MessageHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.service.Classify(req.Content))
}

func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	message, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message)
}

func (h *MessageHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Approve)
}

func (h *MessageHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Reject)
}

// Revise returns a rejected message to draft so it can be edited and
// resubmitted.
func (h *MessageHandler) Revise(w http.ResponseWriter, r *http.Request) {
	message, err := h.service.Revise(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message)
}

type reviewFunc func(ctx context.Context, input ports.ReviewMessageInput) (*domain.Message, error)

func (h *MessageHandler) review(w http.ResponseWriter, r *http.Request, fn reviewFunc) {
	var req reviewRequest
	// The review note is optional, so an empty body is accepted.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := fn(r.Context(), ports.ReviewMessageInput{
		ID:   chi.URLParam(r, "id"),
		Note: req.Note,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message)
}

func (h *MessageHandler) fail(w http.ResponseWriter, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("message request failed", zap.Error(err))
	}
	writeError(w, status, message)
}
