package store

import "testing"

func TestStateSetGet(t *testing.T) {
	ss := NewStateStore(setupTestDB(t))

	if err := ss.Set("marker", "2026-W22"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := ss.Get("marker")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "2026-W22" {
		t.Errorf("value = %q, want %q", got, "2026-W22")
	}

	// Upsert replaces
	if err := ss.Set("marker", "2026-W23"); err != nil {
		t.Fatalf("set again: %v", err)
	}
	got, _ = ss.Get("marker")
	if got != "2026-W23" {
		t.Errorf("value after upsert = %q, want %q", got, "2026-W23")
	}
}

func TestStateGetMissing(t *testing.T) {
	ss := NewStateStore(setupTestDB(t))

	if _, err := ss.Get("absent"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestStateDelete(t *testing.T) {
	ss := NewStateStore(setupTestDB(t))

	if err := ss.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ss.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := ss.Get("k"); err == nil {
		t.Fatal("key still present after delete")
	}
}
