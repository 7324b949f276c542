package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kbakken/wodboard/internal/model"
	"github.com/kbakken/wodboard/internal/push"
	"github.com/kbakken/wodboard/internal/store"
	"github.com/kbakken/wodboard/internal/websocket"
)

// Pusher delivers a payload to one push subscription.
type Pusher interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload push.Payload) error
}

// Broadcaster fans an in-app message out to connected clients.
type Broadcaster interface {
	Broadcast(msg websocket.Message)
}

// Channel is the foreground delivery path: it gates a notification
// against current preferences, shows it on every available surface, and
// records it to history. It is the sole history writer in this path.
type Channel struct {
	prefs   *store.PreferenceStore
	history *store.HistoryStore
	subs    *store.PushStore
	pusher  Pusher
	hub     Broadcaster
	logger  *slog.Logger
}

func NewChannel(prefs *store.PreferenceStore, history *store.HistoryStore, subs *store.PushStore, pusher Pusher, hub Broadcaster, logger *slog.Logger) *Channel {
	return &Channel{
		prefs:   prefs,
		history: history,
		subs:    subs,
		pusher:  pusher,
		hub:     hub,
		logger:  logger,
	}
}

// Send delivers a notification of the given category. A gate rejection
// suppresses the notification entirely: nothing shown, nothing recorded.
// Once approved, the three delivery steps are independent: a push
// failure never blocks the toast, and neither blocks the history append.
// The returned record is nil when the gate rejected.
func (c *Channel) Send(ctx context.Context, cat model.Category, title, body string, data map[string]string, requireInteraction bool) *model.Notification {
	n := model.Notification{
		ID:                 uuid.NewString(),
		Title:              title,
		Body:               body,
		Category:           cat,
		Data:               data,
		Timestamp:          time.Now().UTC(),
		Read:               false,
		RequireInteraction: requireInteraction,
	}

	if !ShouldDeliver(cat, c.prefs.Load(), time.Now()) {
		c.logger.Debug("notification suppressed by preferences", "category", cat)
		return nil
	}

	c.sendPush(ctx, n)

	// The toast is the one guaranteed feedback surface: it goes out even
	// when no device has push permission.
	toast := websocket.ToastMessage(n)
	toast.Extra = map[string]any{"accent": StyleFor(n.Category).Accent}
	c.hub.Broadcast(toast)

	c.history.Append(n)
	return &n
}

// sendPush attempts platform delivery to every registered subscription.
// No subscriptions means permission was never granted; that is a normal
// state, not an error. Expired endpoints are pruned as they surface.
func (c *Channel) sendPush(ctx context.Context, n model.Notification) {
	subs, err := c.subs.List()
	if err != nil {
		c.logger.Error("list push subscriptions", "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	style := StyleFor(n.Category)
	payload := push.Payload{
		Title:              n.Title,
		Body:               n.Body,
		URL:                n.URL(),
		Tag:                Tag(n.Category),
		Icon:               style.Icon,
		Badge:              style.Badge,
		Category:           n.Category,
		RequireInteraction: n.RequireInteraction,
	}

	for i := range subs {
		if err := c.pusher.Send(ctx, &subs[i], payload); err != nil {
			if errors.Is(err, push.ErrExpired) {
				if derr := c.subs.DeleteByEndpoint(subs[i].Endpoint); derr != nil {
					c.logger.Error("prune expired subscription", "error", derr)
				}
				continue
			}
			c.logger.Error("send push notification", "endpoint", subs[i].Endpoint, "error", err)
		}
	}
}
