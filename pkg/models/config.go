package models

// Storage backend names accepted in .todoconfig.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// GlobalConfig holds settings read from .todoconfig via Viper.
type GlobalConfig struct {
	StorageBackend string     `yaml:"storage_backend" mapstructure:"storage_backend"`
	StorageKey     string     `yaml:"storage_key" mapstructure:"storage_key"`
	DefaultFilter  FilterMode `yaml:"default_filter" mapstructure:"default_filter"`
	EventsEnabled  bool       `yaml:"events_enabled" mapstructure:"events_enabled"`

	// Alert look-back windows in hours. Zero disables the alert.
	WriteFailureAlertHours int `yaml:"write_failure_alert_hours" mapstructure:"write_failure_alert_hours"`
	ReadFailureAlertHours  int `yaml:"read_failure_alert_hours" mapstructure:"read_failure_alert_hours"`
}
