package driven

// ConfigStore provides access to persisted application configuration.
// Keys use dot notation for nested values (e.g. "strava.client_id").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// Set stores a configuration value and persists immediately.
	Set(key string, value any) error

	// Save persists the current configuration to disk.
	Save() error

	// Path returns the configuration file path.
	Path() string
}
