package cli

import (
	"github.com/valter-silva-au/todo/internal/core"
	"github.com/valter-silva-au/todo/internal/observability"
	"github.com/valter-silva-au/todo/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	List          core.ListService
	DefaultFilter = models.FilterAll
	BasePath      string
)

// Observability service instances. They stay nil when the event log is
// disabled.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
)
