package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/kbakken/wodboard/internal/model"
)

// Message is a real-time event pushed to every connected app client.
// Two message families share the channel: in-app toasts for notification
// delivery, and bracket_update relays for the live bracket viewer.
type Message struct {
	Type           string         `json:"type"`
	Category       model.Category `json:"category,omitempty"`
	Title          string         `json:"title,omitempty"`
	Body           string         `json:"body,omitempty"`
	NotificationID string         `json:"notification_id,omitempty"`
	URL            string         `json:"url,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// ToastMessage builds the in-app toast event for a delivered notification.
func ToastMessage(n model.Notification) Message {
	return Message{
		Type:           "toast",
		Category:       n.Category,
		Title:          n.Title,
		Body:           n.Body,
		NotificationID: n.ID,
		URL:            n.URL(),
	}
}

// BracketUpdateMessage relays a bracket match change to live viewers.
// The hub is a pass-through here; match payloads originate upstream.
func BracketUpdateMessage(matchID string, extra map[string]any) Message {
	return Message{
		Type:  "bracket_update",
		Extra: mergeExtra(extra, "match_id", matchID),
	}
}

func mergeExtra(extra map[string]any, key string, value any) map[string]any {
	if extra == nil {
		extra = make(map[string]any, 1)
	}
	extra[key] = value
	return extra
}

// Hub maintains the set of active WebSocket clients and broadcasts
// messages to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client buffer full, drop rather than block the hub
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
