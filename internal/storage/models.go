package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority represents task priority levels
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the levels in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority parses a priority name case-insensitively.
// An empty string is low.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "low":
		return PriorityLow, nil
	case "medium", "med":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority %q: must be low, medium, or high", s)
}

// Valid reports whether p is one of the known levels.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// UnmarshalJSON accepts any string and falls back to low for values it does
// not know. Tasks added by voice in older exports carry no priority at all.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = PriorityLow
		return nil
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		parsed = PriorityLow
	}
	*p = parsed
	return nil
}

// Task represents a single todo item
type Task struct {
	ID        int64    `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Time      string   `json:"time"`
	Priority  Priority `json:"priority"`
}

// ValidTime reports whether s is empty or a 24-hour "HH:MM" time.
func ValidTime(s string) bool {
	if s == "" {
		return true
	}
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// Snapshot is everything the app persists between runs.
type Snapshot struct {
	Tasks      []Task
	DarkMode   bool
	Streak     int
	LastOpened string
}

// Keys used in the key-value store. They match the names the browser
// version kept in localStorage so old data can be copied over as is.
const (
	KeyTasks      = "tasks"
	KeyDarkMode   = "darkmode"
	KeyStreak     = "streak"
	KeyLastOpened = "lastOpened"
)
