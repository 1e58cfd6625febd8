// Package core contains the business logic of the todo list: the persisted
// task list, the derived views over it, and configuration loading.
package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/todo/pkg/models"
)

// ConfigFileName is the name (without extension) of the configuration file
// looked up in the data directory.
const ConfigFileName = ".todoconfig"

// ConfigurationManager defines the interface for loading and validating the
// .todoconfig file.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the data directory where .todoconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with the defaults used
// when .todoconfig is missing or leaves a key unset.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		StorageBackend: models.BackendFile,
		StorageKey:     DefaultStorageKey,
		DefaultFilter:  models.FilterAll,
		EventsEnabled:  true,

		WriteFailureAlertHours: 24,
		ReadFailureAlertHours:  24,
	}
}

// LoadGlobalConfig reads .todoconfig from the base path using Viper.
// If the file does not exist, defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("storage.backend", cfg.StorageBackend)
	v.SetDefault("storage.key", cfg.StorageKey)
	v.SetDefault("view.default_filter", string(cfg.DefaultFilter))
	v.SetDefault("events.enabled", cfg.EventsEnabled)
	v.SetDefault("alerts.write_failure_hours", cfg.WriteFailureAlertHours)
	v.SetDefault("alerts.read_failure_hours", cfg.ReadFailureAlertHours)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}

	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(v.GetString("storage.backend")))
	cfg.StorageKey = v.GetString("storage.key")
	cfg.DefaultFilter = models.FilterMode(strings.ToLower(strings.TrimSpace(v.GetString("view.default_filter"))))
	cfg.EventsEnabled = v.GetBool("events.enabled")
	cfg.WriteFailureAlertHours = v.GetInt("alerts.write_failure_hours")
	cfg.ReadFailureAlertHours = v.GetInt("alerts.read_failure_hours")

	return cfg, nil
}

var validBackends = map[string]bool{
	models.BackendFile:   true,
	models.BackendSQLite: true,
	models.BackendMemory: true,
}

// ValidateConfig checks cfg for invalid values and returns an error listing
// every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if !validBackends[cfg.StorageBackend] {
		errs = append(errs, fmt.Sprintf(
			"storage.backend %q is invalid, must be one of: file, sqlite, memory",
			cfg.StorageBackend,
		))
	}

	if strings.TrimSpace(cfg.StorageKey) == "" {
		errs = append(errs, "storage.key must not be empty")
	}

	if cfg.DefaultFilter != "" && !cfg.DefaultFilter.Valid() {
		errs = append(errs, fmt.Sprintf(
			"view.default_filter %q is invalid, must be one of: all, active, completed",
			cfg.DefaultFilter,
		))
	}

	if cfg.WriteFailureAlertHours < 0 {
		errs = append(errs, "alerts.write_failure_hours must not be negative")
	}
	if cfg.ReadFailureAlertHours < 0 {
		errs = append(errs, "alerts.read_failure_hours must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
