package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/brainnova/brainnova/internal/chat"
	"github.com/brainnova/brainnova/internal/events"
)

// Replier resolves a chat message into an answer.
type Replier interface {
	Reply(ctx context.Context, message string) chat.Answer
}

type ChatHandler struct {
	responder Replier
	events    events.Client
}

func NewChatHandler(responder Replier, ev events.Client) *ChatHandler {
	return &ChatHandler{responder: responder, events: ev}
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message required"})
		return
	}

	answer := h.responder.Reply(r.Context(), req.Message)
	chatQueriesTotal.WithLabelValues(answer.Intent).Inc()

	if h.events != nil {
		_ = h.events.Publish(events.SubjectChatAnswered(), events.ChatAnsweredEvent{
			Message:   req.Message,
			Intent:    answer.Intent,
			Timestamp: time.Now(),
		})
	}

	writeJSON(w, http.StatusOK, answer)
}
