package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/comani/internal/adapters/driven/config/file"
	"github.com/custodia-labs/comani/internal/core/domain"
)

func TestConfigInit_Formats(t *testing.T) {
	for _, name := range []string{"comani.properties", "comani.toml", "comani.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			stdout, _, err := execute(t, "", "config", "init", path)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Wrote configuration template to "+path)

			store, err := file.NewConfigStore(path)
			require.NoError(t, err)
			assert.Equal(t, "git", store.GetString(domain.KeyVCS))
			assert.Equal(t, "stats", store.GetString(domain.KeyAnalyzer))
			assert.Equal(t, domain.MemoryOutput, store.GetString(domain.KeyOutput))

			maxElements, err := store.GetInt(domain.KeyQueueMaxElements, 0)
			require.NoError(t, err)
			assert.Equal(t, domain.DefaultQueueElements, maxElements)
		})
	}
}

func TestConfigInit_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "comani.properties")
	require.NoError(t, os.WriteFile(path, []byte("custom.key = kept\n"), 0o600))

	_, _, err := execute(t, "", "config", "init", path)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "", "config", "init", "--force", path)
	require.NoError(t, err)

	store, err := file.NewConfigStore(path)
	require.NoError(t, err)
	assert.Equal(t, "", store.GetString("custom.key"))
	assert.Equal(t, "git", store.GetString(domain.KeyExtractor))
}

func TestConfigInit_UnsupportedFormat(t *testing.T) {
	_, _, err := execute(t, "", "config", "init", filepath.Join(t.TempDir(), "comani.json"))

	assert.ErrorIs(t, err, file.ErrUnsupportedFormat)
}
