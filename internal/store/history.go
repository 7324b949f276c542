package store

import (
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/kbakken/wodboard/internal/model"
)

const historyKey = "notification_history"

// HistoryLimit caps the stored history. Eviction is FIFO by insertion
// order; read state does not protect an entry from eviction.
const HistoryLimit = 100

// HistoryStore is the bounded, newest-first log of delivered
// notifications. The whole log is a single JSON array document in
// app_state, so every mutation is load-modify-save; within one process
// mutations are serialized by the calling goroutine.
//
// Like PreferenceStore, mutators degrade silently on storage faults:
// losing a history entry must never abort a delivery in progress.
type HistoryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewHistoryStore(db *sql.DB, logger *slog.Logger) *HistoryStore {
	return &HistoryStore{db: db, logger: logger}
}

// All returns a snapshot of the history, newest first. Missing or corrupt
// stored data yields an empty snapshot.
func (s *HistoryStore) All() []model.Notification {
	return s.load()
}

// Append inserts the notification at the head and truncates the log to
// HistoryLimit entries.
func (s *HistoryStore) Append(n model.Notification) {
	list := s.load()
	list = append([]model.Notification{n}, list...)
	if len(list) > HistoryLimit {
		list = list[:HistoryLimit]
	}
	s.save(list)
}

// MarkRead flips the read flag for the given id. The flip is one-way and
// idempotent; an unknown id is a no-op, not an error.
func (s *HistoryStore) MarkRead(id string) {
	list := s.load()
	changed := false
	for i := range list {
		if list[i].ID == id && !list[i].Read {
			list[i].Read = true
			changed = true
		}
	}
	if changed {
		s.save(list)
	}
}

// Clear empties the history entirely.
func (s *HistoryStore) Clear() {
	if _, err := s.db.Exec(`DELETE FROM app_state WHERE key = ?`, historyKey); err != nil {
		s.logger.Error("clear notification history", "error", err)
	}
}

// UnreadCount returns the number of unread entries.
func (s *HistoryStore) UnreadCount() int {
	count := 0
	for _, n := range s.load() {
		if !n.Read {
			count++
		}
	}
	return count
}

func (s *HistoryStore) load() []model.Notification {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM app_state WHERE key = ?`, historyKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return []model.Notification{}
	}
	if err != nil {
		s.logger.Warn("load notification history", "error", err)
		return []model.Notification{}
	}

	var list []model.Notification
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.Warn("corrupt notification history, starting empty", "error", err)
		return []model.Notification{}
	}
	return list
}

func (s *HistoryStore) save(list []model.Notification) {
	data, err := json.Marshal(list)
	if err != nil {
		s.logger.Error("marshal notification history", "error", err)
		return
	}
	if err := upsertState(s.db, historyKey, string(data)); err != nil {
		s.logger.Error("save notification history", "error", err)
	}
}
