package notify

import "github.com/kbakken/wodboard/internal/model"

// Style is the presentation mapping for a category: icon and badge for
// platform notifications, accent for in-app toasts. The mapping is
// exhaustive over the closed category set.
type Style struct {
	Icon   string
	Badge  string
	Accent string
}

var styles = map[model.Category]Style{
	model.CategoryCompetition: {Icon: "/icons/competition.png", Badge: "/icons/badge.png", Accent: "orange"},
	model.CategoryReminder:    {Icon: "/icons/reminder.png", Badge: "/icons/badge.png", Accent: "blue"},
	model.CategoryMatch:       {Icon: "/icons/match.png", Badge: "/icons/badge.png", Accent: "green"},
	model.CategoryUpdate:      {Icon: "/icons/update.png", Badge: "/icons/badge.png", Accent: "purple"},
	model.CategorySystem:      {Icon: "/icons/system.png", Badge: "/icons/badge.png", Accent: "gray"},
}

// StyleFor returns the presentation style for a category. Unrecognized
// categories never reach delivery, but the system style is a safe fallback.
func StyleFor(c model.Category) Style {
	if s, ok := styles[c]; ok {
		return s
	}
	return styles[model.CategorySystem]
}

// Tag returns the collapse tag used for platform notifications of a
// category, so repeated sends replace rather than stack.
func Tag(c model.Category) string {
	return "wodboard-" + string(c)
}
