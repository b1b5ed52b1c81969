package driven

// ConfigStore provides access to the run configuration.
// Implementations handle persistence (TOML, YAML or properties files)
// and expose nested keys in dot notation.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns def if key doesn't exist, and an error if it is not an integer.
	GetInt(key string, def int) (int, error)

	// Sub returns all values whose key starts with prefix, as trimmed strings.
	Sub(prefix string) map[string]string

	// Set stores a configuration value in memory.
	Set(key string, value any)

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
