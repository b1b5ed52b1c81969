package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/comani/internal/plugins"
	"github.com/custodia-labs/comani/internal/plugins/builtin"
)

// execute runs the root command with args and stdin and returns what was
// written to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	runInteractive = false
	configForce = false
	versionShort = false

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// withBuiltinPlugins installs the built-in registries for the duration of the test.
func withBuiltinPlugins(t *testing.T) {
	t.Helper()

	origExtractors, origAnalyzers := extractorRegistry, analyzerRegistry
	origStdin, origStderr := stdinIsTerminal, stderrIsTerminal
	t.Cleanup(func() {
		extractorRegistry, analyzerRegistry = origExtractors, origAnalyzers
		stdinIsTerminal, stderrIsTerminal = origStdin, origStderr
	})

	e, a := plugins.NewExtractorRegistry(), plugins.NewAnalyzerRegistry()
	builtin.Register(e, a)
	SetPlugins(e, a)
	stdinIsTerminal = func() bool { return false }
	stderrIsTerminal = func() bool { return false }
}

// writeConfig writes a properties configuration file and returns its path.
func writeConfig(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "comani.properties")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}
