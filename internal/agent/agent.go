// Package agent is the background delivery path: push payloads arriving
// from the backend while no app client is in the foreground. It relays
// them straight to the platform tray with defaulting rules. This path is
// intentionally not gated by delivery preferences and never writes to
// the in-app history; the two paths share nothing but the tray.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/kbakken/wodboard/internal/model"
	"github.com/kbakken/wodboard/internal/push"
	"github.com/kbakken/wodboard/internal/store"
)

const (
	// DefaultTitle is used when a push payload carries no title.
	DefaultTitle = "WodBoard"
	// DefaultBody is used when a push payload carries no body.
	DefaultBody = "You have a new notification"
)

// Payload is the recognized shape inside an inbound push message.
// Everything is optional; unknown keys are ignored.
type Payload struct {
	Title              string      `json:"title"`
	Body               string      `json:"body"`
	URL                string      `json:"url"`
	PrimaryKey         json.Number `json:"primaryKey"`
	RequireInteraction bool        `json:"requireInteraction"`
	Tag                string      `json:"tag"`
}

// ClickEvent is a notification click routed back from a device.
type ClickEvent struct {
	Action string `json:"action"`
	URL    string `json:"url"`
}

// Pusher delivers a payload to one push subscription.
type Pusher interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload push.Payload) error
}

type Agent struct {
	subs   *store.PushStore
	pusher Pusher
	logger *slog.Logger
}

func New(subs *store.PushStore, pusher Pusher, logger *slog.Logger) *Agent {
	return &Agent{subs: subs, pusher: pusher, logger: logger}
}

// ParsePayload extracts the payload from a raw push message. The message
// is an opaque JSON blob with the payload under an optional "data" field;
// anything unparseable degrades to an empty payload, and missing fields
// get the product defaults. It never fails: a garbled push still renders
// a generic notification rather than nothing.
func ParsePayload(raw []byte) Payload {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	var p Payload
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		// Best effort: a partially valid data object keeps its valid fields.
		_ = json.Unmarshal(envelope.Data, &p)
	}

	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Body == "" {
		p.Body = DefaultBody
	}
	if p.URL == "" {
		p.URL = "/"
	}
	return p
}

// OnPush renders an inbound push payload on every registered device.
func (a *Agent) OnPush(ctx context.Context, raw []byte) {
	p := ParsePayload(raw)

	subs, err := a.subs.List()
	if err != nil {
		a.logger.Error("list push subscriptions", "error", err)
		return
	}

	out := push.Payload{
		Title:              p.Title,
		Body:               p.Body,
		URL:                p.URL,
		Tag:                p.Tag,
		RequireInteraction: p.RequireInteraction,
	}

	for i := range subs {
		if err := a.pusher.Send(ctx, &subs[i], out); err != nil {
			if errors.Is(err, push.ErrExpired) {
				if derr := a.subs.DeleteByEndpoint(subs[i].Endpoint); derr != nil {
					a.logger.Error("prune expired subscription", "error", derr)
				}
				continue
			}
			a.logger.Error("relay push notification", "endpoint", subs[i].Endpoint, "error", err)
		}
	}
}

// OnNotificationClick resolves a click event to a navigation target.
// The close action only dismisses; any other click focuses an existing
// window at the target URL or opens a new one.
func (a *Agent) OnNotificationClick(ev ClickEvent) (target string, dismissOnly bool) {
	if ev.Action == "close" {
		return "", true
	}
	if ev.URL == "" {
		return "/", false
	}
	return ev.URL, false
}
