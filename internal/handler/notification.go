package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/kbakken/wodboard/internal/model"
	"github.com/kbakken/wodboard/internal/notify"
	"github.com/kbakken/wodboard/internal/store"
)

type NotificationHandler struct {
	history *store.HistoryStore
	channel *notify.Channel
	logger  *slog.Logger
}

func NewNotificationHandler(hs *store.HistoryStore, ch *notify.Channel, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{history: hs, channel: ch, logger: logger}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.history.All())
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"unread": h.history.UnreadCount()})
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}
	// Unknown ids are a no-op, not an error
	h.history.MarkRead(id)
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/notifications
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.history.Clear()
	w.WriteHeader(http.StatusNoContent)
}

type sendRequest struct {
	Category           string            `json:"category"`
	Title              string            `json:"title"`
	Body               string            `json:"body"`
	Data               map[string]string `json:"data"`
	RequireInteraction bool              `json:"require_interaction"`
}

// Send handles POST /api/notifications/send. This is the entry point for
// page-level triggers reacting to backend events (new competitions,
// partner matches, and so on).
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	cat, err := model.ParseCategory(req.Category)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Title == "" || req.Body == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and body are required"})
		return
	}

	n := h.channel.Send(r.Context(), cat, req.Title, req.Body, req.Data, req.RequireInteraction)
	if n == nil {
		writeJSON(w, http.StatusOK, map[string]any{"delivered": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"delivered": true, "notification": n})
}
