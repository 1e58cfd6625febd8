// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the todo list as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/observability"
	"github.com/valter-silva-au/todo/pkg/models"
)

// Server wraps the task list and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	list        core.ListService
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
}

// NewServer creates a new MCP server over list. metricsCalc and alertEngine
// may be nil if the event log is disabled.
func NewServer(list core.ListService, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		list:        list,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "todo", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run serves MCP over stdio, blocking until the client disconnects or the
// context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskOutput struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// viewOutput is the projected list returned by every list-shaped tool.
type viewOutput struct {
	Filter            string       `json:"filter"`
	Tasks             []taskOutput `json:"tasks"`
	Total             int          `json:"total"`
	Remaining         int          `json:"remaining"`
	AllCompleted      bool         `json:"all_completed"`
	CanClearCompleted bool         `json:"can_clear_completed"`
}

type listTasksInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"which tasks to return: all, active or completed. Defaults to all."`
}

type addTaskInput struct {
	Text string `json:"text" jsonschema:"the task text; surrounding whitespace is trimmed"`
}

type taskRefInput struct {
	Task string `json:"task" jsonschema:"the task to act on: a 1-based position, a full id, or a unique id prefix of at least 4 characters"`
}

type editTaskInput struct {
	Task string `json:"task" jsonschema:"the task to edit: a 1-based position, a full id, or a unique id prefix"`
	Text string `json:"text" jsonschema:"the replacement text; surrounding whitespace is trimmed"`
}

type clearCompletedInput struct{}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	TasksAdded    int    `json:"tasks_added"`
	TasksDone     int    `json:"tasks_completed"`
	TasksReopened int    `json:"tasks_reopened"`
	TasksEdited   int    `json:"tasks_edited"`
	TasksDeleted  int    `json:"tasks_deleted"`
	TasksCleared  int    `json:"tasks_cleared"`
	ReadFailures  int    `json:"read_failures"`
	WriteFailures int    `json:"write_failures"`
	EventCount    int    `json:"event_count"`
	OldestEvent   string `json:"oldest_event,omitempty"`
	NewestEvent   string `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks, newest first, optionally filtered to active or completed ones. Also returns how many tasks remain.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Add a new active task at the top of the list. Blank text is ignored.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_task",
		Description: "Flip a task between active and completed.",
	}, s.handleToggleTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "edit_task",
		Description: "Replace the text of a task. Blank text is rejected.",
	}, s.handleEditTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Remove a task from the list.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "clear_completed",
		Description: "Remove every completed task. Fails when no task is completed.",
	}, s.handleClearCompleted)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get activity metrics (tasks added, completed, deleted, storage failures) for a time window.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Get active alerts about recent storage failures.",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, viewOutput, error) {
	mode, err := models.ParseFilterMode(input.Filter)
	if err != nil {
		return errorResult(err.Error()), viewOutput{}, nil
	}
	return nil, projectOutput(s.list.Tasks(), mode), nil
}

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return errorResult("text must not be blank"), taskOutput{}, nil
	}
	tasks := s.list.Add(input.Text)
	return nil, taskToOutput(tasks[0]), nil
}

func (s *Server) handleToggleTask(_ context.Context, _ *gomcp.CallToolRequest, input taskRefInput) (*gomcp.CallToolResult, taskOutput, error) {
	task, err := s.list.Resolve(input.Task)
	if err != nil {
		return errorResult(fmt.Sprintf("toggling task: %s", err)), taskOutput{}, nil
	}
	updated, ok := findTask(s.list.Toggle(task.ID), task.ID)
	if !ok {
		return errorResult(fmt.Sprintf("toggling task: task %s was removed", task.ID)), taskOutput{}, nil
	}
	return nil, taskToOutput(updated), nil
}

func (s *Server) handleEditTask(_ context.Context, _ *gomcp.CallToolRequest, input editTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	task, err := s.list.Resolve(input.Task)
	if err != nil {
		return errorResult(fmt.Sprintf("editing task: %s", err)), taskOutput{}, nil
	}
	if strings.TrimSpace(input.Text) == "" {
		return errorResult("text must not be blank"), taskOutput{}, nil
	}
	updated, ok := findTask(s.list.Edit(task.ID, input.Text), task.ID)
	if !ok {
		return errorResult(fmt.Sprintf("editing task: task %s was removed", task.ID)), taskOutput{}, nil
	}
	return nil, taskToOutput(updated), nil
}

func (s *Server) handleDeleteTask(_ context.Context, _ *gomcp.CallToolRequest, input taskRefInput) (*gomcp.CallToolResult, taskOutput, error) {
	task, err := s.list.Resolve(input.Task)
	if err != nil {
		return errorResult(fmt.Sprintf("deleting task: %s", err)), taskOutput{}, nil
	}
	s.list.Delete(task.ID)
	return nil, taskToOutput(task), nil
}

func (s *Server) handleClearCompleted(_ context.Context, _ *gomcp.CallToolRequest, _ clearCompletedInput) (*gomcp.CallToolResult, viewOutput, error) {
	if !core.CanClearCompleted(s.list.Tasks()) {
		return errorResult("no completed tasks to clear"), viewOutput{}, nil
	}
	return nil, projectOutput(s.list.ClearCompleted(), models.FilterAll), nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (event log may be disabled)"), metricsOutput{}, nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}
	since, err := observability.ParseSince(sinceStr)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), metricsOutput{}, nil
	}

	m, err := s.metricsCalc.Calculate(since)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), metricsOutput{}, nil
	}

	out := metricsOutput{
		TasksAdded:    m.TasksAdded,
		TasksDone:     m.TasksDone,
		TasksReopened: m.TasksReopened,
		TasksEdited:   m.TasksEdited,
		TasksDeleted:  m.TasksDeleted,
		TasksCleared:  m.TasksCleared,
		ReadFailures:  m.ReadFailures,
		WriteFailures: m.WriteFailures,
		EventCount:    m.EventCount,
	}
	if m.OldestEvent != nil {
		out.OldestEvent = m.OldestEvent.Format(time.RFC3339)
	}
	if m.NewestEvent != nil {
		out.NewestEvent = m.NewestEvent.Format(time.RFC3339)
	}
	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (event log may be disabled)"), getAlertsOutput{}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, 0, len(alerts)),
		Count:  len(alerts),
	}
	for _, a := range alerts {
		out.Alerts = append(out.Alerts, alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		})
	}
	return nil, out, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{ID: t.ID, Text: t.Text, Completed: t.Completed}
}

func projectOutput(list models.TaskList, mode models.FilterMode) viewOutput {
	v := core.Project(list, mode)
	out := viewOutput{
		Filter:            string(v.Mode),
		Tasks:             make([]taskOutput, 0, len(v.Tasks)),
		Total:             v.Total,
		Remaining:         v.Remaining,
		AllCompleted:      v.AllCompleted,
		CanClearCompleted: v.CanClearCompleted,
	}
	for _, t := range v.Tasks {
		out.Tasks = append(out.Tasks, taskToOutput(t))
	}
	return out
}

// errorResult builds a tool result that reports msg to the client as a
// tool-level error.
func findTask(tasks models.TaskList, id string) (models.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
