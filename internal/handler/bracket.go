package handler

import (
	"encoding/json"
	"net/http"

	"github.com/kbakken/wodboard/internal/websocket"
)

// BracketHandler relays bracket match changes from the backend to live
// viewers over the WebSocket hub. The relay is a pass-through: match
// payloads are produced and owned upstream.
type BracketHandler struct {
	hub *websocket.Hub
}

func NewBracketHandler(hub *websocket.Hub) *BracketHandler {
	return &BracketHandler{hub: hub}
}

type bracketUpdateRequest struct {
	MatchID string         `json:"match_id"`
	Extra   map[string]any `json:"extra"`
}

// Update handles POST /api/bracket/update
func (h *BracketHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req bracketUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.MatchID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "match_id is required"})
		return
	}

	h.hub.Broadcast(websocket.BracketUpdateMessage(req.MatchID, req.Extra))
	writeJSON(w, http.StatusOK, map[string]int{"clients": h.hub.ClientCount()})
}
