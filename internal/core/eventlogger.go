package core

// Event types written by PersistedList.
const (
	EventTaskAdded          = "task.added"
	EventTaskToggled        = "task.toggled"
	EventTaskEdited         = "task.edited"
	EventTaskDeleted        = "task.deleted"
	EventTasksCleared       = "tasks.cleared"
	EventStorageReadFailed  = "storage.read_failed"
	EventStorageWriteFailed = "storage.write_failed"
)

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}
