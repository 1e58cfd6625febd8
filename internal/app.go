// Package internal provides the App struct that wires all components of the
// todo list together and initializes the CLI layer.
package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/todo/internal/cli"
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/observability"
	"github.com/valter-silva-au/todo/internal/storage"
	"github.com/valter-silva-au/todo/pkg/models"
)

// EventLogFileName is the JSONL event log kept in the data directory.
const EventLogFileName = ".todo_events.jsonl"

// App holds all service dependencies of the todo list.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Storage layer
	Store storage.Store

	// Core services
	IDGen core.TaskIDGenerator
	List  *core.PersistedList

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components of the todo list and loads the
// stored tasks. basePath is the data directory holding the store, the event
// log and .todoconfig.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	globalCfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(globalCfg); err != nil {
		return nil, err
	}
	app.Config = globalCfg

	// --- Storage layer ---
	app.Store, err = storage.Open(globalCfg.StorageBackend, basePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", globalCfg.StorageBackend, err)
	}

	// --- Observability ---
	if globalCfg.EventsEnabled {
		app.EventLog, err = observability.NewJSONLEventLog(filepath.Join(basePath, EventLogFileName))
		if err != nil {
			// Non-fatal: run without the event log.
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		thresholds := observability.AlertThresholds{
			WriteFailureHours: globalCfg.WriteFailureAlertHours,
			ReadFailureHours:  globalCfg.ReadFailureAlertHours,
		}
		app.AlertEngine = observability.NewAlertEngine(app.EventLog, thresholds)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Core services ---
	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}
	app.IDGen = core.NewTaskIDGenerator()
	app.List = core.NewPersistedList(app.Store, core.PersistedListOpts{
		Key:    globalCfg.StorageKey,
		IDGen:  app.IDGen,
		Events: evtAdapter,
	})
	app.List.Load()

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.List = app.List
	cli.DefaultFilter = globalCfg.DefaultFilter

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases the store and the event log file handle. It is safe to call
// on an App whose EventLog is nil.
func (a *App) Close() error {
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.EventLog != nil {
		errs = append(errs, a.EventLog.Close())
	}
	return errors.Join(errs...)
}

// ResolveBasePath determines the data directory. TODO_HOME wins; otherwise
// the nearest directory at or above the working directory holding a
// .todoconfig file is used, falling back to ~/.todo.
func ResolveBasePath() string {
	if home := os.Getenv("TODO_HOME"); home != "" {
		return home
	}

	if dir, err := os.Getwd(); err == nil {
		for {
			if hasConfigFile(dir) {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".todo")
	}
	return "."
}

// hasConfigFile reports whether dir holds .todoconfig, with or without a
// YAML extension.
func hasConfigFile(dir string) bool {
	for _, name := range []string{core.ConfigFileName, core.ConfigFileName + ".yaml", core.ConfigFileName + ".yml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   observability.LevelFor(eventType),
		Type:    eventType,
		Message: eventType,
		Data:    data,
	})
}
