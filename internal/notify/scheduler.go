package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kbakken/wodboard/internal/model"
	"github.com/kbakken/wodboard/internal/store"
)

const summaryMarkerKey = "weekly_summary_sent"

// summaryHour is the local hour on Sunday after which the weekly summary
// becomes eligible to send.
const summaryHour = 18

// Scheduler drives time-based notifications. Today that is the weekly
// summary: one system-category digest per ISO week, sent through the
// delivery channel so the usual preference gates apply.
type Scheduler struct {
	mu       sync.RWMutex
	channel  *Channel
	history  *store.HistoryStore
	state    *store.StateStore
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	logger   *slog.Logger
}

func NewScheduler(channel *Channel, history *store.HistoryStore, state *store.StateStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		channel:  channel,
		history:  history,
		state:    state,
		interval: 60 * time.Second,
		logger:   logger,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx, time.Now())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	if now.Weekday() != time.Sunday || now.Hour() < summaryHour {
		return
	}

	year, week := now.ISOWeek()
	marker := fmt.Sprintf("%d-W%02d", year, week)
	if sent, err := s.state.Get(summaryMarkerKey); err == nil && sent == marker {
		return
	}

	unread := s.history.UnreadCount()
	body := "You're all caught up. See you at the box next week!"
	if unread == 1 {
		body = "You have 1 unread notification from this week."
	} else if unread > 1 {
		body = fmt.Sprintf("You have %d unread notifications from this week.", unread)
	}

	s.channel.Send(ctx, model.CategorySystem, "Your week on WodBoard",
		body, map[string]string{"url": "/notifications"}, false)

	// Mark the week even if the gate suppressed the send; the summary is
	// not deferred delivery, it either goes out now or not at all.
	if err := s.state.Set(summaryMarkerKey, marker); err != nil {
		s.logger.Error("record weekly summary marker", "error", err)
	}
}
