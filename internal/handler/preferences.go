package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/kbakken/wodboard/internal/model"
	"github.com/kbakken/wodboard/internal/store"
)

var clockRegexp = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type PreferenceHandler struct {
	prefs *store.PreferenceStore
}

func NewPreferenceHandler(ps *store.PreferenceStore) *PreferenceHandler {
	return &PreferenceHandler{prefs: ps}
}

// Get handles GET /api/notifications/preferences
func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.prefs.Load())
}

// Update handles PUT /api/notifications/preferences. The request body is
// decoded over the current record, so partial updates keep unmentioned
// fields as they are.
func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	prefs := h.prefs.Load()
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := validateQuietHours(prefs.QuietHours); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.prefs.Save(prefs)
	writeJSON(w, http.StatusOK, h.prefs.Load())
}

func validateQuietHours(q model.QuietHours) error {
	if !q.Enabled {
		return nil
	}
	if !clockRegexp.MatchString(q.Start) {
		return fmt.Errorf("quiet hours start must be HH:MM, got %q", q.Start)
	}
	if !clockRegexp.MatchString(q.End) {
		return fmt.Errorf("quiet hours end must be HH:MM, got %q", q.End)
	}
	return nil
}
