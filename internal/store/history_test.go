package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kbakken/wodboard/internal/database"
	"github.com/kbakken/wodboard/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	return NewHistoryStore(setupTestDB(t), slog.Default())
}

func testNotification(title string) model.Notification {
	return model.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      "body",
		Category:  model.CategorySystem,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

func TestHistoryEmptyByDefault(t *testing.T) {
	hs := setupHistoryStore(t)

	if got := hs.All(); len(got) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(got))
	}
	if got := hs.UnreadCount(); got != 0 {
		t.Fatalf("unread count = %d, want 0", got)
	}
}

func TestHistoryAppendNewestFirst(t *testing.T) {
	hs := setupHistoryStore(t)

	for i := 0; i < 5; i++ {
		hs.Append(testNotification(fmt.Sprintf("n%d", i)))
	}

	all := hs.All()
	if len(all) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(all))
	}
	for i, n := range all {
		want := fmt.Sprintf("n%d", 4-i)
		if n.Title != want {
			t.Errorf("entry %d title = %q, want %q", i, n.Title, want)
		}
	}
}

func TestHistoryRoundTripPreservesTimestamps(t *testing.T) {
	hs := setupHistoryStore(t)

	sent := make([]model.Notification, 0, 10)
	base := time.Date(2026, 5, 2, 14, 30, 45, 0, time.UTC)
	for i := 0; i < 10; i++ {
		n := testNotification(fmt.Sprintf("n%d", i))
		n.Timestamp = base.Add(time.Duration(i) * time.Minute)
		hs.Append(n)
		sent = append(sent, n)
	}

	all := hs.All()
	if len(all) != len(sent) {
		t.Fatalf("expected %d entries, got %d", len(sent), len(all))
	}
	for i, got := range all {
		want := sent[len(sent)-1-i]
		if got.ID != want.ID {
			t.Errorf("entry %d id = %q, want %q", i, got.ID, want.ID)
		}
		if !got.Timestamp.Equal(want.Timestamp) {
			t.Errorf("entry %d timestamp = %v, want %v", i, got.Timestamp, want.Timestamp)
		}
	}
}

func TestHistoryOverflowEvictsOldest(t *testing.T) {
	hs := setupHistoryStore(t)

	var ids []string
	for i := 0; i < 105; i++ {
		n := testNotification(fmt.Sprintf("n%d", i))
		hs.Append(n)
		ids = append(ids, n.ID)
	}

	all := hs.All()
	if len(all) != HistoryLimit {
		t.Fatalf("expected %d entries after overflow, got %d", HistoryLimit, len(all))
	}

	present := make(map[string]bool, len(all))
	for _, n := range all {
		present[n.ID] = true
	}
	// The 5 first-appended must be gone
	for i := 0; i < 5; i++ {
		if present[ids[i]] {
			t.Errorf("oldest entry %d survived eviction", i)
		}
	}
	// The newest must be at the head
	if all[0].ID != ids[104] {
		t.Errorf("head id = %q, want %q", all[0].ID, ids[104])
	}
}

func TestHistoryOverflowIgnoresReadState(t *testing.T) {
	hs := setupHistoryStore(t)

	first := testNotification("first")
	hs.Append(first)
	hs.MarkRead(first.ID)

	for i := 0; i < HistoryLimit; i++ {
		hs.Append(testNotification(fmt.Sprintf("n%d", i)))
	}

	for _, n := range hs.All() {
		if n.ID == first.ID {
			t.Fatal("read entry survived FIFO eviction")
		}
	}
}

func TestHistoryMarkRead(t *testing.T) {
	hs := setupHistoryStore(t)

	a := testNotification("a")
	b := testNotification("b")
	hs.Append(a)
	hs.Append(b)

	if got := hs.UnreadCount(); got != 2 {
		t.Fatalf("unread count = %d, want 2", got)
	}

	hs.MarkRead(a.ID)
	if got := hs.UnreadCount(); got != 1 {
		t.Fatalf("unread count after mark = %d, want 1", got)
	}

	// Idempotent: second call changes nothing
	hs.MarkRead(a.ID)
	if got := hs.UnreadCount(); got != 1 {
		t.Fatalf("unread count after repeat mark = %d, want 1", got)
	}

	for _, n := range hs.All() {
		if n.ID == a.ID && !n.Read {
			t.Error("marked entry still unread")
		}
		if n.ID == b.ID && n.Read {
			t.Error("unmarked entry became read")
		}
	}
}

func TestHistoryMarkReadUnknownID(t *testing.T) {
	hs := setupHistoryStore(t)

	n := testNotification("a")
	hs.Append(n)

	hs.MarkRead("no-such-id")

	if got := hs.UnreadCount(); got != 1 {
		t.Fatalf("unread count = %d, want 1", got)
	}
	if got := hs.All(); len(got) != 1 {
		t.Fatalf("history length = %d, want 1", len(got))
	}
}

func TestHistoryClear(t *testing.T) {
	hs := setupHistoryStore(t)

	hs.Append(testNotification("a"))
	hs.Append(testNotification("b"))
	hs.Clear()

	if got := hs.All(); len(got) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(got))
	}
	if got := hs.UnreadCount(); got != 0 {
		t.Fatalf("unread count after clear = %d, want 0", got)
	}
}

func TestHistoryCorruptDataStartsEmpty(t *testing.T) {
	db := setupTestDB(t)
	hs := NewHistoryStore(db, slog.Default())

	if _, err := db.Exec(`INSERT INTO app_state (key, value) VALUES (?, ?)`, historyKey, `{not json`); err != nil {
		t.Fatalf("seed corrupt history: %v", err)
	}

	if got := hs.All(); len(got) != 0 {
		t.Fatalf("expected empty history from corrupt data, got %d", len(got))
	}

	// Appending still works and replaces the corrupt document
	hs.Append(testNotification("fresh"))
	if got := hs.All(); len(got) != 1 {
		t.Fatalf("history length = %d, want 1", len(got))
	}
}
