package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/observability"
	"github.com/valter-silva-au/todo/internal/storage"
	"github.com/valter-silva-au/todo/pkg/models"
)

// --- Fake implementations ---

type fakeMetricsCalculator struct {
	metrics *observability.Metrics
}

func (f *fakeMetricsCalculator) Calculate(_ time.Time) (*observability.Metrics, error) {
	return f.metrics, nil
}

type fakeAlertEngine struct {
	alerts []observability.Alert
}

func (f *fakeAlertEngine) Evaluate() ([]observability.Alert, error) {
	return f.alerts, nil
}

type seqIDGen struct{ n int }

func (g *seqIDGen) GenerateTaskID() string {
	g.n++
	return []string{"aaaa1111", "bbbb2222", "cccc3333", "dddd4444", "eeee5555"}[g.n-1]
}

// newTestList returns a list holding, newest first, "walk dog" (active),
// "buy milk" (completed) and "read book" (active).
func newTestList(t *testing.T) *core.PersistedList {
	t.Helper()
	l := core.NewPersistedList(storage.NewMemoryStore(), core.PersistedListOpts{IDGen: &seqIDGen{}})
	l.Load()
	l.Add("read book")
	l.Add("buy milk")
	l.Add("walk dog")
	l.Toggle("bbbb2222")
	return l
}

// racingDeleteList deletes the target task just before each Toggle or Edit,
// as a concurrent delete_task call would.
type racingDeleteList struct {
	*core.PersistedList
}

func (r racingDeleteList) Toggle(id string) models.TaskList {
	r.PersistedList.Delete(id)
	return r.PersistedList.Toggle(id)
}

func (r racingDeleteList) Edit(id, newText string) models.TaskList {
	r.PersistedList.Delete(id)
	return r.PersistedList.Edit(id, newText)
}

// callTool connects a client to the server and calls a tool.
func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *gomcp.CallToolResult {
	t.Helper()

	ctx := context.Background()
	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)

	t1, t2 := gomcp.NewInMemoryTransports()

	go func() {
		_ = srv.MCPServer().Run(ctx, t1)
	}()

	session, err := client.Connect(ctx, t2, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &gomcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}

	return result
}

// decode parses a successful result from its structured content, falling
// back to the JSON text content.
func decode[T any](t *testing.T, result *gomcp.CallToolResult) T {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %s", extractText(result))
	}

	var out T
	raw := []byte(extractText(result))
	if result.StructuredContent != nil {
		raw, _ = json.Marshal(result.StructuredContent)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshalling result: %v (raw was: %s)", err, raw)
	}
	return out
}

// --- Tests ---

func TestListTasksAll(t *testing.T) {
	srv := NewServer(newTestList(t), nil, nil, "test")

	out := decode[viewOutput](t, callTool(t, srv, "list_tasks", map[string]any{}))

	if out.Filter != "all" || out.Total != 3 || len(out.Tasks) != 3 {
		t.Fatalf("unexpected view %+v", out)
	}
	if out.Tasks[0].Text != "walk dog" {
		t.Errorf("expected newest task first, got %q", out.Tasks[0].Text)
	}
	if out.Remaining != 2 || out.AllCompleted || !out.CanClearCompleted {
		t.Errorf("unexpected derived values %+v", out)
	}
}

func TestListTasksWithFilter(t *testing.T) {
	srv := NewServer(newTestList(t), nil, nil, "test")

	active := decode[viewOutput](t, callTool(t, srv, "list_tasks", map[string]any{"filter": "active"}))
	if len(active.Tasks) != 2 || active.Total != 3 {
		t.Errorf("expected 2 active of 3, got %+v", active)
	}

	done := decode[viewOutput](t, callTool(t, srv, "list_tasks", map[string]any{"filter": "Completed"}))
	if len(done.Tasks) != 1 || done.Tasks[0].Text != "buy milk" {
		t.Errorf("expected only buy milk, got %+v", done.Tasks)
	}
}

func TestListTasksInvalidFilter(t *testing.T) {
	srv := NewServer(newTestList(t), nil, nil, "test")

	result := callTool(t, srv, "list_tasks", map[string]any{"filter": "someday"})
	if !result.IsError {
		t.Fatal("expected error for invalid filter")
	}
	if !strings.Contains(extractText(result), "invalid filter") {
		t.Errorf("unexpected error text %q", extractText(result))
	}
}

func TestAddTask(t *testing.T) {
	l := newTestList(t)
	srv := NewServer(l, nil, nil, "test")

	out := decode[taskOutput](t, callTool(t, srv, "add_task", map[string]any{"text": "  call mom  "}))

	if out.Text != "call mom" || out.Completed || out.ID != "dddd4444" {
		t.Errorf("unexpected task %+v", out)
	}
	if got := l.Tasks(); len(got) != 4 || got[0].ID != out.ID {
		t.Errorf("expected new task at front, got %+v", got)
	}
}

func TestAddTaskBlank(t *testing.T) {
	l := newTestList(t)
	srv := NewServer(l, nil, nil, "test")

	result := callTool(t, srv, "add_task", map[string]any{"text": "   "})
	if !result.IsError {
		t.Fatal("expected error for blank text")
	}
	if len(l.Tasks()) != 3 {
		t.Error("blank add must not change the list")
	}
}

func TestToggleTask(t *testing.T) {
	l := newTestList(t)
	srv := NewServer(l, nil, nil, "test")

	out := decode[taskOutput](t, callTool(t, srv, "toggle_task", map[string]any{"task": "1"}))
	if out.ID != "cccc3333" || out.Text != "walk dog" {
		t.Fatalf("expected first task, got %+v", out)
	}
	if !out.Completed {
		t.Error("expected task to be completed")
	}

	out = decode[taskOutput](t, callTool(t, srv, "toggle_task", map[string]any{"task": "bbbb"}))
	if out.Text != "buy milk" || out.Completed {
		t.Errorf("expected buy milk reopened, got %+v", out)
	}
}

func TestToggleTaskNotFound(t *testing.T) {
	srv := NewServer(newTestList(t), nil, nil, "test")

	result := callTool(t, srv, "toggle_task", map[string]any{"task": "9"})
	if !result.IsError {
		t.Fatal("expected error for unknown position")
	}
	if !strings.Contains(extractText(result), "task not found") {
		t.Errorf("unexpected error text %q", extractText(result))
	}
}

func TestToggleAndEditTaskDeletedMeanwhile(t *testing.T) {
	srv := NewServer(racingDeleteList{newTestList(t)}, nil, nil, "test")

	for _, call := range []struct {
		tool string
		args map[string]any
	}{
		{"toggle_task", map[string]any{"task": "aaaa1111"}},
		{"edit_task", map[string]any{"task": "cccc3333", "text": "walk cat"}},
	} {
		result := callTool(t, srv, call.tool, call.args)
		if !result.IsError {
			t.Fatalf("%s: expected error for a task removed mid-call, got %s", call.tool, extractText(result))
		}
		if !strings.Contains(extractText(result), "was removed") {
			t.Errorf("%s: unexpected error text %q", call.tool, extractText(result))
		}
	}
}

func TestEditTask(t *testing.T) {
	l := newTestList(t)
	srv := NewServer(l, nil, nil, "test")

	out := decode[taskOutput](t, callTool(t, srv, "edit_task", map[string]any{"task": "aaaa1111", "text": " read two books "}))
	if out.Text != "read two books" {
		t.Errorf("expected trimmed text, got %q", out.Text)
	}

	result := callTool(t, srv, "edit_task", map[string]any{"task": "aaaa1111", "text": " "})
	if !result.IsError {
		t.Fatal("expected error for blank edit")
	}
	if task, _ := l.Get("aaaa1111"); task.Text != "read two books" {
		t.Errorf("blank edit changed text to %q", task.Text)
	}
}

func TestDeleteTask(t *testing.T) {
	l := newTestList(t)
	srv := NewServer(l, nil, nil, "test")

	out := decode[taskOutput](t, callTool(t, srv, "delete_task", map[string]any{"task": "2"}))
	if out.Text != "buy milk" {
		t.Errorf("expected buy milk deleted, got %+v", out)
	}
	if _, ok := l.Get("bbbb2222"); ok {
		t.Error("task still present after delete")
	}
}

func TestClearCompleted(t *testing.T) {
	l := newTestList(t)
	srv := NewServer(l, nil, nil, "test")

	out := decode[viewOutput](t, callTool(t, srv, "clear_completed", map[string]any{}))
	if out.Total != 2 || out.CanClearCompleted {
		t.Errorf("unexpected view after clear %+v", out)
	}

	result := callTool(t, srv, "clear_completed", map[string]any{})
	if !result.IsError {
		t.Fatal("expected error when nothing is completed")
	}
}

func TestGetMetrics(t *testing.T) {
	oldest := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mc := &fakeMetricsCalculator{metrics: &observability.Metrics{
		TasksAdded:  4,
		TasksDone:   2,
		EventCount:  6,
		OldestEvent: &oldest,
	}}
	srv := NewServer(newTestList(t), mc, nil, "test")

	out := decode[metricsOutput](t, callTool(t, srv, "get_metrics", map[string]any{"since": "30d"}))
	if out.TasksAdded != 4 || out.TasksDone != 2 || out.EventCount != 6 {
		t.Errorf("unexpected metrics %+v", out)
	}
	if out.OldestEvent != "2026-03-01T09:00:00Z" {
		t.Errorf("unexpected oldest event %q", out.OldestEvent)
	}
}

func TestGetMetricsInvalidSince(t *testing.T) {
	srv := NewServer(newTestList(t), &fakeMetricsCalculator{metrics: &observability.Metrics{}}, nil, "test")

	result := callTool(t, srv, "get_metrics", map[string]any{"since": "7w"})
	if !result.IsError {
		t.Fatal("expected error for unsupported suffix")
	}
}

func TestGetMetricsDisabled(t *testing.T) {
	srv := NewServer(newTestList(t), nil, nil, "test")

	result := callTool(t, srv, "get_metrics", map[string]any{})
	if !result.IsError {
		t.Fatal("expected error when metrics are disabled")
	}
}

func TestGetAlerts(t *testing.T) {
	ae := &fakeAlertEngine{alerts: []observability.Alert{{
		ID:          "storage.write_failed-1",
		Condition:   "unsaved_changes",
		Severity:    observability.SeverityHigh,
		Message:     "1 storage.write_failed event(s) in the last 24h",
		TriggeredAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}}}
	srv := NewServer(newTestList(t), nil, ae, "test")

	out := decode[getAlertsOutput](t, callTool(t, srv, "get_alerts", map[string]any{}))
	if out.Count != 1 || out.Alerts[0].Severity != "high" {
		t.Errorf("unexpected alerts %+v", out)
	}
}

func TestGetAlertsEmpty(t *testing.T) {
	srv := NewServer(newTestList(t), nil, &fakeAlertEngine{}, "test")

	out := decode[getAlertsOutput](t, callTool(t, srv, "get_alerts", map[string]any{}))
	if out.Count != 0 || out.Alerts == nil {
		t.Errorf("expected empty, non-nil alert list, got %+v", out)
	}
}

// extractText extracts the text from the first TextContent in a CallToolResult.
func extractText(result *gomcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(*gomcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
