package notify

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kbakken/wodboard/internal/model"
)

// ShouldDeliver decides whether a notification of the given category may
// be shown at the given instant. It is a pure predicate over its inputs:
// every gate must pass, any rejection short-circuits, and there is no
// partial delivery mode.
func ShouldDeliver(cat model.Category, prefs model.Preferences, now time.Time) bool {
	if !prefs.Categories.Enabled(cat) {
		return false
	}

	if prefs.QuietHours.Enabled && inQuietHours(prefs.QuietHours, now) {
		return false
	}

	if prefs.WeekendsOnly {
		if wd := now.Weekday(); wd != time.Saturday && wd != time.Sunday {
			return false
		}
	}

	// competitionDaysOnly is stored and surfaced in settings but has no
	// competition-calendar source yet, so it always passes.

	return true
}

// inQuietHours checks the quiet-hours window using minutes since
// midnight. A window with start <= end covers a single day (start == end
// collapses to that one minute); start > end wraps midnight. Malformed
// HH:MM strings fail open: the window is ignored rather than blocking or
// crashing delivery.
func inQuietHours(q model.QuietHours, now time.Time) bool {
	start, err := clockMinutes(q.Start)
	if err != nil {
		slog.Warn("malformed quiet hours start, ignoring window", "start", q.Start, "error", err)
		return false
	}
	end, err := clockMinutes(q.End)
	if err != nil {
		slog.Warn("malformed quiet hours end, ignoring window", "end", q.End, "error", err)
		return false
	}

	minute := now.Hour()*60 + now.Minute()
	if start <= end {
		return minute >= start && minute <= end
	}
	return minute >= start || minute <= end
}

// clockMinutes parses "HH:MM" into minutes since midnight.
func clockMinutes(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	min, err := strconv.Atoi(mm)
	if err != nil || min < 0 || min > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + min, nil
}
