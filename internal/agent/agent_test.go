package agent

import (
	"context"
	"log/slog"
	"testing"

	"github.com/kbakken/wodboard/internal/database"
	"github.com/kbakken/wodboard/internal/model"
	"github.com/kbakken/wodboard/internal/push"
	"github.com/kbakken/wodboard/internal/store"
)

type fakePusher struct {
	sent []push.Payload
	err  error
}

func (f *fakePusher) Send(_ context.Context, _ *model.PushSubscription, payload push.Payload) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, payload)
	return nil
}

func setupAgent(t *testing.T) (*Agent, *store.PushStore, *fakePusher) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	subs := store.NewPushStore(db)
	pusher := &fakePusher{}
	return New(subs, pusher, slog.Default()), subs, pusher
}

func TestParsePayloadDefaults(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"no data field", `{"other": 1}`},
		{"empty data", `{"data": {}}`},
		{"garbage", `not json at all`},
		{"garbage data", `{"data": "not an object"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ParsePayload([]byte(tc.raw))
			if p.Title != DefaultTitle {
				t.Errorf("title = %q, want %q", p.Title, DefaultTitle)
			}
			if p.Body != DefaultBody {
				t.Errorf("body = %q, want %q", p.Body, DefaultBody)
			}
			if p.URL != "/" {
				t.Errorf("url = %q, want %q", p.URL, "/")
			}
		})
	}
}

func TestParsePayloadFields(t *testing.T) {
	raw := `{"data": {"title": "Heat 3 starting", "body": "Lane 4", "url": "/battle/bracket", "requireInteraction": true, "tag": "heat-3", "primaryKey": 12}}`
	p := ParsePayload([]byte(raw))

	if p.Title != "Heat 3 starting" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Body != "Lane 4" {
		t.Errorf("body = %q", p.Body)
	}
	if p.URL != "/battle/bracket" {
		t.Errorf("url = %q", p.URL)
	}
	if !p.RequireInteraction {
		t.Error("requireInteraction not parsed")
	}
	if p.Tag != "heat-3" {
		t.Errorf("tag = %q", p.Tag)
	}
}

func TestParsePayloadIgnoresUnknownKeys(t *testing.T) {
	raw := `{"data": {"title": "T", "badge": "/x.png", "vibrate": [200, 100]}}`
	p := ParsePayload([]byte(raw))
	if p.Title != "T" {
		t.Errorf("title = %q, want %q", p.Title, "T")
	}
}

func TestOnPushRelaysToAllSubscriptions(t *testing.T) {
	a, subs, pusher := setupAgent(t)
	if _, err := subs.CreateSubscription("https://push.example/a", "k", "a", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := subs.CreateSubscription("https://push.example/b", "k", "a", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	a.OnPush(context.Background(), []byte(`{"data": {"title": "T", "body": "B"}}`))

	if len(pusher.sent) != 2 {
		t.Fatalf("relayed to %d subscriptions, want 2", len(pusher.sent))
	}
	if pusher.sent[0].Title != "T" {
		t.Errorf("relayed title = %q", pusher.sent[0].Title)
	}
}

func TestOnPushPrunesExpired(t *testing.T) {
	a, subs, pusher := setupAgent(t)
	if _, err := subs.CreateSubscription("https://push.example/gone", "k", "a", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	pusher.err = push.ErrExpired

	a.OnPush(context.Background(), []byte(`{}`))

	count, err := subs.Count()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("expired subscription not pruned, count = %d", count)
	}
}

func TestOnNotificationClickRouting(t *testing.T) {
	a, _, _ := setupAgent(t)

	cases := []struct {
		name        string
		ev          ClickEvent
		wantTarget  string
		wantDismiss bool
	}{
		{"close action only dismisses", ClickEvent{Action: "close", URL: "/battle"}, "", true},
		{"click navigates to url", ClickEvent{URL: "/battle/bracket"}, "/battle/bracket", false},
		{"click without url goes home", ClickEvent{}, "/", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, dismiss := a.OnNotificationClick(tc.ev)
			if target != tc.wantTarget {
				t.Errorf("target = %q, want %q", target, tc.wantTarget)
			}
			if dismiss != tc.wantDismiss {
				t.Errorf("dismissOnly = %v, want %v", dismiss, tc.wantDismiss)
			}
		})
	}
}
