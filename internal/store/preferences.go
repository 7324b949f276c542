package store

import (
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/kbakken/wodboard/internal/model"
)

const preferencesKey = "notification_preferences"

// PreferenceStore persists the single notification preference record.
// Its contract is deliberately non-failing: Load always produces a usable
// record and Save degrades silently, because preference storage faults
// must never block notification delivery or core app usage.
type PreferenceStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPreferenceStore(db *sql.DB, logger *slog.Logger) *PreferenceStore {
	return &PreferenceStore{db: db, logger: logger}
}

// Load returns the stored preferences. A missing row, storage fault, or
// corrupt document all fall back to the documented defaults. Well-formed
// documents are merged over the defaults, so keys added in later versions
// keep their default value and unrecognized keys are ignored.
func (s *PreferenceStore) Load() model.Preferences {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, preferencesKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return model.DefaultPreferences()
	}
	if err != nil {
		s.logger.Warn("load preferences, using defaults", "error", err)
		return model.DefaultPreferences()
	}

	prefs := model.DefaultPreferences()
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		s.logger.Warn("corrupt stored preferences, using defaults", "error", err)
		return model.DefaultPreferences()
	}
	return prefs
}

// Save writes the preference record. Storage faults are logged and
// swallowed; callers must not depend on propagated errors.
func (s *PreferenceStore) Save(p model.Preferences) {
	data, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("marshal preferences", "error", err)
		return
	}
	if err := upsertState(s.db, preferencesKey, string(data)); err != nil {
		s.logger.Error("save preferences", "error", err)
	}
}
