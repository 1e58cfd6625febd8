// Package observability provides the event log, metrics and alerting for
// the todo list. Events are persisted as JSON Lines next to the store, and
// metrics and alerts are derived from the log on demand.
package observability
