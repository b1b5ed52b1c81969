package services

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/comani/internal/core/domain"
)

func validConfig(t *testing.T) mapConfig {
	t.Helper()
	return mapConfig{
		domain.KeyVCS:       "git",
		domain.KeyExtractor: "git",
		domain.KeyInput:     t.TempDir(),
		domain.KeyAnalyzer:  "stats",
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	cfg := validConfig(t)

	s, err := LoadSettings(cfg, "", openCDMS)
	require.NoError(t, err)

	assert.Equal(t, runtime.GOOS, s.OS)
	assert.Equal(t, "git", s.VCS)
	assert.Equal(t, domain.DefaultLogLevel, s.LogLevel)
	assert.Equal(t, domain.DefaultQueueElements, s.QueueMaxElements)
	assert.Equal(t, "git", s.Extraction.Get(domain.KeyExtractor))
	assert.Equal(t, "stats", s.Analysis.Get(domain.KeyAnalyzer))
	assert.False(t, s.Extraction.Has(domain.KeyAnalyzer), "analysis keys stay out of extraction properties")
}

func TestLoadSettings_Values(t *testing.T) {
	cfg := validConfig(t)
	cfg[domain.KeyOS] = "Linux"
	cfg[domain.KeyLogLevel] = "2"
	cfg[domain.KeyQueueMaxElements] = 250
	cfg["extraction.github.token"] = " secret "

	s, err := LoadSettings(cfg, "", openCDMS)
	require.NoError(t, err)

	assert.Equal(t, "Linux", s.OS)
	assert.Equal(t, 2, s.LogLevel)
	assert.Equal(t, 250, s.QueueMaxElements)
	assert.Equal(t, "secret", s.Extraction.Get("extraction.github.token"))
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg mapConfig)
		key    string
	}{
		{"missing vcs", func(cfg mapConfig) { delete(cfg, domain.KeyVCS) }, domain.KeyVCS},
		{"log level too high", func(cfg mapConfig) { cfg[domain.KeyLogLevel] = 3 }, domain.KeyLogLevel},
		{"log level not a number", func(cfg mapConfig) { cfg[domain.KeyLogLevel] = "loud" }, domain.KeyLogLevel},
		{"queue too small", func(cfg mapConfig) { cfg[domain.KeyQueueMaxElements] = 0 }, domain.KeyQueueMaxElements},
		{"queue too large", func(cfg mapConfig) { cfg[domain.KeyQueueMaxElements] = 100001 }, domain.KeyQueueMaxElements},
		{"missing extractor", func(cfg mapConfig) { delete(cfg, domain.KeyExtractor) }, domain.KeyExtractor},
		{"missing input", func(cfg mapConfig) { delete(cfg, domain.KeyInput) }, domain.KeyInput},
		{"missing analyzer", func(cfg mapConfig) { delete(cfg, domain.KeyAnalyzer) }, domain.KeyAnalyzer},
		{"missing output", func(cfg mapConfig) { cfg[domain.KeyOutput] = "/does/not/exist" }, domain.KeyOutput},
		{"missing commit list", func(cfg mapConfig) { cfg[domain.KeyCommitList] = "/does/not/exist.txt" }, domain.KeyCommitList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(cfg)

			s, err := LoadSettings(cfg, "", openCDMS)

			assert.Nil(t, s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadSettings_InputMustBeDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "repo.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg := validConfig(t)
	cfg[domain.KeyInput] = file

	_, err := LoadSettings(cfg, "", openCDMS)

	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestLoadSettings_RemoteInputPassesThrough(t *testing.T) {
	cfg := validConfig(t)
	cfg[domain.KeyInput] = "octocat/hello-world"

	s, err := LoadSettings(cfg, "", openCDMS)
	require.NoError(t, err)

	assert.Equal(t, "octocat/hello-world", s.Extraction.Get(domain.KeyInput))
}

func TestLoadSettings_ReportsAllErrors(t *testing.T) {
	cfg := mapConfig{}

	_, err := LoadSettings(cfg, "", openCDMS)

	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.KeyVCS)
	assert.Contains(t, err.Error(), domain.KeyExtractor)
	assert.Contains(t, err.Error(), domain.KeyAnalyzer)
}

func TestLoadSettings_InteractiveNeedsNoInput(t *testing.T) {
	cfg := validConfig(t)
	delete(cfg, domain.KeyInput)

	s, err := LoadSettings(cfg, "commit abc\n", openCDMS)
	require.NoError(t, err)

	assert.Equal(t, "commit abc\n", s.CommitText)
}

func TestLoadSettings_Reuse(t *testing.T) {
	dir := t.TempDir()
	writeCache(t, dir, "a")
	cfg := mapConfig{
		domain.KeyVCS:      "git",
		domain.KeyReuse:    dir,
		domain.KeyAnalyzer: "stats",
	}

	s, err := LoadSettings(cfg, "", openCDMS)
	require.NoError(t, err)

	assert.Equal(t, dir, s.Extraction.Get(domain.KeyReuse))
}

func TestLoadSettings_ReuseWithoutCacheFiles(t *testing.T) {
	cfg := mapConfig{
		domain.KeyVCS:      "git",
		domain.KeyReuse:    t.TempDir(),
		domain.KeyAnalyzer: "stats",
	}

	_, err := LoadSettings(cfg, "", openCDMS)

	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
	assert.Contains(t, err.Error(), domain.KeyReuse)
}

func TestLoadSettings_PreparesCache(t *testing.T) {
	existing := t.TempDir()
	writeCache(t, existing, "old")
	fresh := filepath.Join(t.TempDir(), "new", "cache")

	for _, dir := range []string{existing, fresh} {
		cfg := validConfig(t)
		cfg[domain.KeyCache] = dir

		_, err := LoadSettings(cfg, "", openCDMS)
		require.NoError(t, err)

		assert.DirExists(t, dir)
		paths, err := openCDMS(dir).List()
		require.NoError(t, err)
		assert.Empty(t, paths)
	}
}

func TestLoadSettings_InvalidConfigLeavesCacheAlone(t *testing.T) {
	dir := t.TempDir()
	writeCache(t, dir, "old")
	cfg := validConfig(t)
	cfg[domain.KeyCache] = dir
	delete(cfg, domain.KeyAnalyzer)

	_, err := LoadSettings(cfg, "", openCDMS)
	require.Error(t, err)

	paths, err := openCDMS(dir).List()
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestLoadSettings_MemoryOutput(t *testing.T) {
	cfg := validConfig(t)
	cfg[domain.KeyOutput] = domain.MemoryOutput

	_, err := LoadSettings(cfg, "", openCDMS)

	assert.NoError(t, err)
}
