package model

// QuietHours is a time-of-day window during which delivery is suppressed.
// Start and End are "HH:MM" strings; the window may wrap midnight.
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// CategoryFlags holds the per-category delivery toggles. JSON keys match
// the stored preference document.
type CategoryFlags struct {
	NewCompetitions      bool `json:"newCompetitions"`
	CompetitionReminders bool `json:"competitionReminders"`
	PartnerMatches       bool `json:"partnerMatches"`
	CompetitionUpdates   bool `json:"competitionUpdates"`
	WeeklySummary        bool `json:"weeklySummary"`
}

// Enabled reports whether delivery is toggled on for the given category.
// Unrecognized categories have no toggle and are treated as disabled.
func (f CategoryFlags) Enabled(c Category) bool {
	switch c {
	case CategoryCompetition:
		return f.NewCompetitions
	case CategoryReminder:
		return f.CompetitionReminders
	case CategoryMatch:
		return f.PartnerMatches
	case CategoryUpdate:
		return f.CompetitionUpdates
	case CategorySystem:
		return f.WeeklySummary
	}
	return false
}

// Preferences is the single per-installation delivery preference record.
type Preferences struct {
	Categories          CategoryFlags `json:"categoryFlags"`
	QuietHours          QuietHours    `json:"quietHours"`
	WeekendsOnly        bool          `json:"weekendsOnly"`
	CompetitionDaysOnly bool          `json:"competitionDaysOnly"`
}

// DefaultPreferences returns the documented defaults used whenever no
// stored record exists: everything on except competition updates, quiet
// hours off, no day-of-week restrictions.
func DefaultPreferences() Preferences {
	return Preferences{
		Categories: CategoryFlags{
			NewCompetitions:      true,
			CompetitionReminders: true,
			PartnerMatches:       true,
			CompetitionUpdates:   false,
			WeeklySummary:        true,
		},
		QuietHours: QuietHours{
			Enabled: false,
			Start:   "22:00",
			End:     "08:00",
		},
		WeekendsOnly:        false,
		CompetitionDaysOnly: false,
	}
}
