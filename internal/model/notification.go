package model

import (
	"fmt"
	"time"
)

// Category is the semantic kind of a notification. The set is closed:
// every category maps to exactly one preference toggle and one toast style.
type Category string

const (
	CategoryCompetition Category = "competition"
	CategoryReminder    Category = "reminder"
	CategoryMatch       Category = "match"
	CategoryUpdate      Category = "update"
	CategorySystem      Category = "system"
)

// Categories lists all recognized categories.
var Categories = []Category{
	CategoryCompetition,
	CategoryReminder,
	CategoryMatch,
	CategoryUpdate,
	CategorySystem,
}

// ParseCategory validates a category string. Passing anything outside the
// closed set is a caller bug and is rejected here rather than silently
// swallowed downstream.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case CategoryCompetition, CategoryReminder, CategoryMatch, CategoryUpdate, CategorySystem:
		return c, nil
	}
	return "", fmt.Errorf("unrecognized notification category %q", s)
}

// Valid reports whether c is one of the recognized categories.
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// Notification is a single delivered notification. It is created and
// appended to history exactly once; the only mutation afterwards is the
// Read flag flipping false to true.
type Notification struct {
	ID                 string            `json:"id"`
	Title              string            `json:"title"`
	Body               string            `json:"body"`
	Category           Category          `json:"category"`
	Data               map[string]string `json:"data,omitempty"`
	Timestamp          time.Time         `json:"timestamp"`
	Read               bool              `json:"read"`
	RequireInteraction bool              `json:"requireInteraction,omitempty"`
}

// URL returns the click-through target carried in Data, or "/" when absent.
func (n Notification) URL() string {
	if u, ok := n.Data["url"]; ok && u != "" {
		return u
	}
	return "/"
}
