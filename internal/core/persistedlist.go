package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/valter-silva-au/todo/pkg/models"
)

// DefaultStorageKey is the store key the task list is persisted under when
// no key is configured.
const DefaultStorageKey = "todos"

// minIDPrefixLen is the shortest ID prefix Resolve accepts.
const minIDPrefixLen = 4

var (
	// ErrTaskNotFound is returned by Resolve when no task matches a reference.
	ErrTaskNotFound = errors.New("task not found")
	// ErrAmbiguousRef is returned by Resolve when an ID prefix matches more
	// than one task.
	ErrAmbiguousRef = errors.New("ambiguous task reference")
)

// ListService is the task list surface driven by the command line, the
// terminal UI and the MCP server.
type ListService interface {
	Tasks() models.TaskList
	Get(id string) (models.Task, bool)
	Add(rawText string) models.TaskList
	Toggle(id string) models.TaskList
	Edit(id, newText string) models.TaskList
	Delete(id string) models.TaskList
	ClearCompleted() models.TaskList
	Resolve(ref string) (models.Task, error)
}

var _ ListService = (*PersistedList)(nil)

// PersistedListOpts holds the optional collaborators of a PersistedList.
// Zero values select the defaults.
type PersistedListOpts struct {
	Key    string
	IDGen  TaskIDGenerator
	Events EventLogger
}

// PersistedList owns the canonical task list and mirrors it to a
// KeyValueStore. Every mutator is total: invalid input and unknown IDs are
// no-ops, and storage failures are recorded on the event log but never
// returned. The in-memory list stays authoritative when a write fails.
type PersistedList struct {
	mu     sync.Mutex
	store  KeyValueStore
	key    string
	idGen  TaskIDGenerator
	events EventLogger
	tasks  models.TaskList
}

// NewPersistedList creates an empty PersistedList backed by store. Call Load
// to populate it from the store.
func NewPersistedList(store KeyValueStore, opts PersistedListOpts) *PersistedList {
	key := opts.Key
	if key == "" {
		key = DefaultStorageKey
	}
	idGen := opts.IDGen
	if idGen == nil {
		idGen = NewTaskIDGenerator()
	}
	return &PersistedList{
		store:  store,
		key:    key,
		idGen:  idGen,
		events: opts.Events,
		tasks:  models.TaskList{},
	}
}

// Key returns the store key the list is persisted under.
func (l *PersistedList) Key() string {
	return l.key
}

// Load replaces the in-memory list with the one held by the store. A missing
// key or an unreadable payload yields an empty list.
func (l *PersistedList) Load() models.TaskList {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tasks = l.read()
	return l.snapshot()
}

// Tasks returns the current list.
func (l *PersistedList) Tasks() models.TaskList {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Get returns the task with the given ID.
func (l *PersistedList) Get(id string) (models.Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := l.indexOf(id); i >= 0 {
		return l.tasks[i], true
	}
	return models.Task{}, false
}

// Add trims rawText and prepends a new, active task holding it. Blank text
// is rejected silently and nothing is written.
func (l *PersistedList) Add(rawText string) models.TaskList {
	l.mu.Lock()
	defer l.mu.Unlock()

	text := normalizeText(rawText)
	if text == "" {
		return l.snapshot()
	}

	task := models.Task{
		ID:        l.idGen.GenerateTaskID(),
		Text:      text,
		Completed: false,
	}
	next := make(models.TaskList, 0, len(l.tasks)+1)
	next = append(next, task)
	next = append(next, l.tasks...)
	l.tasks = next

	l.logEvent(EventTaskAdded, map[string]any{"id": task.ID, "text": task.Text})
	l.persist()
	return l.snapshot()
}

// Toggle flips the completed flag of the task with the given ID.
func (l *PersistedList) Toggle(id string) models.TaskList {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := slices.Clone(l.tasks)
	if i := l.indexOf(id); i >= 0 {
		next[i].Completed = !next[i].Completed
		l.logEvent(EventTaskToggled, map[string]any{"id": id, "completed": next[i].Completed})
	}
	l.tasks = next

	l.persist()
	return l.snapshot()
}

// Edit trims newText and replaces the text of the task with the given ID.
// Blank text is rejected silently and nothing is written.
func (l *PersistedList) Edit(id, newText string) models.TaskList {
	l.mu.Lock()
	defer l.mu.Unlock()

	text := normalizeText(newText)
	if text == "" {
		return l.snapshot()
	}

	next := slices.Clone(l.tasks)
	if i := l.indexOf(id); i >= 0 {
		next[i].Text = text
		l.logEvent(EventTaskEdited, map[string]any{"id": id, "text": text})
	}
	l.tasks = next

	l.persist()
	return l.snapshot()
}

// Delete removes the task with the given ID.
func (l *PersistedList) Delete(id string) models.TaskList {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.tasks)
	l.tasks = slices.DeleteFunc(slices.Clone(l.tasks), func(t models.Task) bool {
		return t.ID == id
	})
	if len(l.tasks) < before {
		l.logEvent(EventTaskDeleted, map[string]any{"id": id})
	}

	l.persist()
	return l.snapshot()
}

// ClearCompleted removes every completed task.
func (l *PersistedList) ClearCompleted() models.TaskList {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.tasks)
	l.tasks = slices.DeleteFunc(slices.Clone(l.tasks), func(t models.Task) bool {
		return t.Completed
	})
	if removed := before - len(l.tasks); removed > 0 {
		l.logEvent(EventTasksCleared, map[string]any{"count": removed})
	}

	l.persist()
	return l.snapshot()
}

// Resolve finds a task from a user-supplied reference: a 1-based position in
// the full list, an exact ID, or a unique ID prefix of at least four
// characters. Positions take precedence over all-digit ID prefixes.
func (l *PersistedList) Resolve(ref string) (models.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Task{}, fmt.Errorf("task reference required")
	}

	if pos, err := strconv.Atoi(ref); err == nil {
		if pos < 1 || pos > len(l.tasks) {
			return models.Task{}, fmt.Errorf("no task at position %d: %w", pos, ErrTaskNotFound)
		}
		return l.tasks[pos-1], nil
	}

	if i := l.indexOf(ref); i >= 0 {
		return l.tasks[i], nil
	}

	if len(ref) < minIDPrefixLen {
		return models.Task{}, fmt.Errorf("task %q: %w", ref, ErrTaskNotFound)
	}

	var matches []models.Task
	for _, t := range l.tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("task %q: %w", ref, ErrTaskNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("prefix %q matches %d tasks: %w", ref, len(matches), ErrAmbiguousRef)
	}
}

func (l *PersistedList) indexOf(id string) int {
	return slices.IndexFunc(l.tasks, func(t models.Task) bool {
		return t.ID == id
	})
}

func (l *PersistedList) snapshot() models.TaskList {
	return slices.Clone(l.tasks)
}

// read decodes the stored list, falling back to an empty list on any failure.
func (l *PersistedList) read() models.TaskList {
	raw, ok, err := l.store.Get(l.key)
	if err != nil {
		l.logEvent(EventStorageReadFailed, map[string]any{"key": l.key, "error": err.Error()})
		return models.TaskList{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return models.TaskList{}
	}

	var decoded models.TaskList
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		l.logEvent(EventStorageReadFailed, map[string]any{"key": l.key, "error": err.Error()})
		return models.TaskList{}
	}

	tasks, dropped := sanitizeTasks(decoded)
	if dropped > 0 {
		l.logEvent(EventStorageReadFailed, map[string]any{
			"key":     l.key,
			"error":   "invalid entries dropped",
			"dropped": dropped,
		})
	}
	return tasks
}

// persist overwrites the stored list with the in-memory one.
func (l *PersistedList) persist() {
	data, err := json.Marshal(l.tasks)
	if err != nil {
		l.logEvent(EventStorageWriteFailed, map[string]any{"key": l.key, "error": err.Error()})
		return
	}
	if err := l.store.Set(l.key, string(data)); err != nil {
		l.logEvent(EventStorageWriteFailed, map[string]any{"key": l.key, "error": err.Error()})
	}
}

func (l *PersistedList) logEvent(eventType string, data map[string]any) {
	if l.events == nil {
		return
	}
	_ = l.events.LogEvent(eventType, data) // Event logging is best-effort.
}

// normalizeText trims surrounding whitespace and replaces invalid UTF-8 with
// U+FFFD, matching what the stored JSON will decode back to.
func normalizeText(s string) string {
	return strings.ToValidUTF8(strings.TrimSpace(s), "\uFFFD")
}

// sanitizeTasks drops entries with an empty ID, blank text or an ID already
// seen earlier in the list. It returns the kept tasks in their original order
// and the number dropped.
func sanitizeTasks(in models.TaskList) (models.TaskList, int) {
	out := make(models.TaskList, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		if t.ID == "" || strings.TrimSpace(t.Text) == "" {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, len(in) - len(out)
}
