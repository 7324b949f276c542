package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/kbakken/wodboard/internal/agent"
)

// maxPushBody bounds inbound push payloads; push services cap payloads
// at 4KB anyway.
const maxPushBody = 8 << 10

type AgentHandler struct {
	agent *agent.Agent
}

func NewAgentHandler(a *agent.Agent) *AgentHandler {
	return &AgentHandler{agent: a}
}

// Receive handles POST /api/agent/push: an out-of-band push payload from
// the backend, relayed to devices without touching preferences or history.
func (h *AgentHandler) Receive(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPushBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}

	h.agent.OnPush(r.Context(), raw)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Click handles POST /api/agent/click: a notification click event routed
// back from a device, resolved to a navigation target.
func (h *AgentHandler) Click(w http.ResponseWriter, r *http.Request) {
	var ev agent.ClickEvent
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPushBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable body"})
		return
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ev); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}
	}

	target, dismissOnly := h.agent.OnNotificationClick(ev)
	writeJSON(w, http.StatusOK, map[string]any{"target": target, "dismiss_only": dismissOnly})
}
