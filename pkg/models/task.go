package models

import (
	"fmt"
	"strings"
)

// Task is a single todo entry. The JSON field names are the persisted
// wire format and must not change.
type Task struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// TaskList is the canonical ordered collection of tasks. Index 0 is the most
// recently added task.
type TaskList []Task

// FilterMode selects which subset of a TaskList a view shows.
type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

// FilterModes returns the filter modes in display order.
func FilterModes() []FilterMode {
	return []FilterMode{FilterAll, FilterActive, FilterCompleted}
}

// Valid reports whether m is one of the known filter modes.
func (m FilterMode) Valid() bool {
	switch m {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// ParseFilterMode converts user input into a FilterMode. Matching is
// case-insensitive and an empty string selects FilterAll.
func ParseFilterMode(s string) (FilterMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return FilterAll, nil
	}
	mode := FilterMode(normalized)
	if !mode.Valid() {
		return "", fmt.Errorf("invalid filter %q: must be one of all, active, completed", s)
	}
	return mode, nil
}
