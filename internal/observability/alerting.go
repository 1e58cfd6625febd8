package observability

import (
	"fmt"
	"time"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures the look-back windows alerts consider.
type AlertThresholds struct {
	WriteFailureHours int `yaml:"write_failure_hours" json:"write_failure_hours"`
	ReadFailureHours  int `yaml:"read_failure_hours" json:"read_failure_hours"`
}

// DefaultAlertThresholds returns the default look-back windows.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		WriteFailureHours: 24,
		ReadFailureHours:  24,
	}
}

// AlertEngine evaluates alert conditions against the event log.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

// alertEngine implements AlertEngine by reading storage failure events.
type alertEngine struct {
	eventLog   EventLog
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates a new AlertEngine with the given EventLog and thresholds.
func NewAlertEngine(eventLog EventLog, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		eventLog:   eventLog,
		thresholds: thresholds,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate reports storage failures inside the configured windows. Write
// failures mean recent changes may be missing after a restart; read failures
// mean a stored list was discarded as unreadable.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	now := ae.now()
	var alerts []Alert

	writeAlert, err := ae.checkFailures(now, "storage.write_failed", ae.thresholds.WriteFailureHours)
	if err != nil {
		return nil, fmt.Errorf("checking write failures: %w", err)
	}
	if writeAlert != nil {
		writeAlert.Condition = "unsaved_changes"
		writeAlert.Severity = SeverityHigh
		writeAlert.Message = fmt.Sprintf("%s; recent changes may be lost on restart", writeAlert.Message)
		alerts = append(alerts, *writeAlert)
	}

	readAlert, err := ae.checkFailures(now, "storage.read_failed", ae.thresholds.ReadFailureHours)
	if err != nil {
		return nil, fmt.Errorf("checking read failures: %w", err)
	}
	if readAlert != nil {
		readAlert.Condition = "unreadable_store"
		readAlert.Severity = SeverityMedium
		readAlert.Message = fmt.Sprintf("%s; stored tasks were discarded", readAlert.Message)
		alerts = append(alerts, *readAlert)
	}

	return alerts, nil
}

// checkFailures returns a partially filled alert when at least one event of
// eventType happened within the last windowHours, or nil.
func (ae *alertEngine) checkFailures(now time.Time, eventType string, windowHours int) (*Alert, error) {
	if windowHours <= 0 {
		return nil, nil
	}
	since := now.Add(-time.Duration(windowHours) * time.Hour)
	events, err := ae.eventLog.Read(EventFilter{Since: &since, Type: eventType})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	latest := events[len(events)-1]
	return &Alert{
		ID:          fmt.Sprintf("%s-%d", eventType, latest.Time.Unix()),
		Message:     fmt.Sprintf("%d %s event(s) in the last %dh", len(events), eventType, windowHours),
		TriggeredAt: latest.Time,
	}, nil
}
