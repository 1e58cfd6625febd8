package observability

import (
	"fmt"
	"strconv"
	"time"
)

// Metrics holds activity counts derived from the event log.
type Metrics struct {
	TasksAdded    int        `json:"tasks_added"`
	TasksDone     int        `json:"tasks_completed"`
	TasksReopened int        `json:"tasks_reopened"`
	TasksEdited   int        `json:"tasks_edited"`
	TasksDeleted  int        `json:"tasks_deleted"`
	TasksCleared  int        `json:"tasks_cleared"`
	ReadFailures  int        `json:"read_failures"`
	WriteFailures int        `json:"write_failures"`
	EventCount    int        `json:"event_count"`
	OldestEvent   *time.Time `json:"oldest_event,omitempty"`
	NewestEvent   *time.Time `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{EventCount: len(events)}

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "task.added":
			m.TasksAdded++
		case "task.toggled":
			if completed, ok := event.Data["completed"].(bool); ok && completed {
				m.TasksDone++
			} else {
				m.TasksReopened++
			}
		case "task.edited":
			m.TasksEdited++
		case "task.deleted":
			m.TasksDeleted++
		case "tasks.cleared":
			m.TasksCleared += intValue(event.Data["count"])
		case "storage.read_failed":
			m.ReadFailures++
		case "storage.write_failed":
			m.WriteFailures++
		}
	}

	return m, nil
}

// intValue converts a number decoded from JSON (float64) or set in memory
// (int) into an int.
func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// ParseSince parses a look-back window like "7d" or "24h" into the
// corresponding instant before now.
func ParseSince(s string) (time.Time, error) {
	return parseSinceAt(s, time.Now().UTC())
}

func parseSinceAt(s string, now time.Time) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	num, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if num < 0 {
		return time.Time{}, fmt.Errorf("invalid duration %q: must not be negative", s)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
