package file

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/comani/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ErrUnsupportedFormat indicates a configuration file extension that no codec handles.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// format is the encoding of a configuration file.
type format int

const (
	formatTOML format = iota
	formatYAML
	formatProperties
)

// formatOf picks the encoding from the file extension.
func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".properties", ".ini", ".cfg":
		return formatProperties, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ConfigStore is a file-based implementation of driven.ConfigStore.
// TOML, YAML and properties/INI files are supported; nested tables
// and sections are flattened into dot-notation keys.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	format   format
	data     map[string]any
}

// NewConfigStore creates a config store for the file at path.
// The format is chosen by extension. A missing file yields an empty store.
func NewConfigStore(path string) (*ConfigStore, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: path,
		format:   f,
		data:     make(map[string]any),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a configuration value as a trimmed string.
// Scalars of other types are formatted; tables and arrays yield "".
func (s *ConfigStore) GetString(key string) string {
	val, ok := s.Get(key)
	if !ok {
		return ""
	}
	return stringify(val)
}

// GetInt retrieves an integer configuration value, returning def if the key
// does not exist.
func (s *ConfigStore) GetInt(key string, def int) (int, error) {
	val, ok := s.Get(key)
	if !ok {
		return def, nil
	}

	// TOML integers are parsed as int64, YAML integers as int
	switch v := val.(type) {
	case int64:
		return int(v), nil
	case int:
		return v, nil
	case uint64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) {
			return int(v), nil
		}
		return 0, fmt.Errorf("%s: %v is not an integer", key, v)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not an integer", key, v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%s: %v is not an integer", key, v)
	}
}

// Sub returns every value whose key starts with prefix as trimmed strings.
// Keys keep their prefix.
func (s *ConfigStore) Sub(prefix string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]string)
	for key, val := range s.data {
		if strings.HasPrefix(key, prefix) {
			result[key] = stringify(val)
		}
	}
	return result
}

// Set stores a configuration value in memory. Call Save to persist it.
func (s *ConfigStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		data []byte
		err  error
	)
	switch s.format {
	case formatTOML:
		data, err = toml.Marshal(unflattenMap(s.data))
	case formatYAML:
		data, err = yaml.Marshal(unflattenMap(s.data))
	case formatProperties:
		data, err = marshalProperties(s.data)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0o600)
}

// Load reads configuration from the file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file yet - that's fine, start empty
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	switch s.format {
	case formatTOML:
		err = toml.Unmarshal(data, &loaded)
	case formatYAML:
		err = yaml.Unmarshal(data, &loaded)
	case formatProperties:
		loaded, err = unmarshalProperties(data)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", s.filePath, err)
	}

	if loaded == nil {
		loaded = make(map[string]any)
	}

	// Flatten nested maps into dot-notation keys for easier access
	s.data = flattenMap(loaded, "")
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// unmarshalProperties reads key = value lines. Keys of named sections are
// prefixed with the section name.
func unmarshalProperties(data []byte) (map[string]any, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, err
	}

	result := make(map[string]any)
	for _, section := range f.Sections() {
		prefix := ""
		if section.Name() != ini.DefaultSection {
			prefix = section.Name() + "."
		}
		for _, key := range section.Keys() {
			result[prefix+key.Name()] = key.String()
		}
	}
	return result, nil
}

// marshalProperties writes flat keys as sorted key = value lines.
func marshalProperties(data map[string]any) ([]byte, error) {
	f := ini.Empty()
	section := f.Section("")

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := section.NewKey(key, stringify(data[key])); err != nil {
			return nil, err
		}
	}

	var sb strings.Builder
	if _, err := f.WriteTo(&sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// stringify formats a scalar value. Tables and arrays yield "".
func stringify(val any) string {
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any, []any:
		return ""
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// FlattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			// Recursively flatten nested maps
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// unflattenMap turns dot-notation keys back into nested maps.
// A key that is both a value and a table keeps the value.
func unflattenMap(m map[string]any) map[string]any {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	// Shorter keys first so values win over tables of the same name
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) < len(keys[j]) })

	result := make(map[string]any)
	for _, key := range keys {
		parts := strings.Split(key, ".")
		node := result
		placed := true
		for _, part := range parts[:len(parts)-1] {
			next, exists := node[part]
			if !exists {
				child := make(map[string]any)
				node[part] = child
				node = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				placed = false
				break
			}
			node = child
		}
		if placed {
			node[parts[len(parts)-1]] = m[key]
		}
	}
	return result
}
