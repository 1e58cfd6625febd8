package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valter-silva-au/todo/pkg/models"
	"pgregory.net/rapid"
)

type todoconfigValues struct {
	Backend       string
	Key           string
	DefaultFilter models.FilterMode
	EventsEnabled bool
	WriteHours    int
	ReadHours     int
}

func genTodoconfigValues(t *rapid.T) todoconfigValues {
	return todoconfigValues{
		Backend:       rapid.SampledFrom([]string{models.BackendFile, models.BackendSQLite, models.BackendMemory}).Draw(t, "backend"),
		Key: rapid.StringMatching(`[a-z][a-z0-9_]{0,15}`).
			Filter(func(s string) bool { return s != "null" && s != "true" && s != "false" }).
			Draw(t, "key"),
		DefaultFilter: rapid.SampledFrom(models.FilterModes()).Draw(t, "filter"),
		EventsEnabled: rapid.Bool().Draw(t, "events"),
		WriteHours:    rapid.IntRange(0, 720).Draw(t, "writeHours"),
		ReadHours:     rapid.IntRange(0, 720).Draw(t, "readHours"),
	}
}

func mustWriteTodoconfig(t *rapid.T, dir string, v todoconfigValues) {
	content := fmt.Sprintf(`storage:
  backend: %s
  key: %s
view:
  default_filter: %s
events:
  enabled: %t
alerts:
  write_failure_hours: %d
  read_failure_hours: %d
`, strings.ToUpper(v.Backend), v.Key, v.DefaultFilter, v.EventsEnabled, v.WriteHours, v.ReadHours)
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName+".yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

// Property: every value written to .todoconfig is read back, with the
// backend name case-folded, and the result passes validation.
func TestProperty_ConfigRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dir, err := os.MkdirTemp("", "todoconfig-property-*")
		if err != nil {
			t.Fatalf("creating temp dir: %v", err)
		}
		defer os.RemoveAll(dir)

		want := genTodoconfigValues(t)
		mustWriteTodoconfig(t, dir, want)

		cm := NewConfigurationManager(dir)
		cfg, err := cm.LoadGlobalConfig()
		if err != nil {
			t.Fatalf("loading config: %v", err)
		}

		if cfg.StorageBackend != want.Backend {
			t.Fatalf("backend = %q, want %q", cfg.StorageBackend, want.Backend)
		}
		if cfg.StorageKey != want.Key || cfg.DefaultFilter != want.DefaultFilter || cfg.EventsEnabled != want.EventsEnabled {
			t.Fatalf("config mismatch: got %+v, want %+v", cfg, want)
		}
		if cfg.WriteFailureAlertHours != want.WriteHours || cfg.ReadFailureAlertHours != want.ReadHours {
			t.Fatalf("alert windows mismatch: got %+v, want %+v", cfg, want)
		}
		if err := cm.ValidateConfig(cfg); err != nil {
			t.Fatalf("valid config rejected: %v", err)
		}
	})
}

// Property: an unknown backend is always reported, whatever else is set.
func TestProperty_ConfigValidationRejectsUnknownBackend(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultGlobalConfig()
		cfg.StorageBackend = rapid.StringMatching(`[a-z]{1,10}`).
			Filter(func(s string) bool {
				return s != models.BackendFile && s != models.BackendSQLite && s != models.BackendMemory
			}).Draw(t, "backend")
		cfg.DefaultFilter = rapid.SampledFrom(models.FilterModes()).Draw(t, "filter")

		err := NewConfigurationManager("").ValidateConfig(cfg)
		if err == nil || !strings.Contains(err.Error(), "storage.backend") {
			t.Fatalf("expected storage.backend error for %q, got %v", cfg.StorageBackend, err)
		}
	})
}
