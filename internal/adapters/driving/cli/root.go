// Package cli implements the comani command line interface.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/comani/internal/plugins"
)

// version is set at build time via SetVersion.
var version = "dev"

// Plug-in registries used by the commands. Set via SetPlugins.
var (
	extractorRegistry *plugins.ExtractorRegistry
	analyzerRegistry  *plugins.AnalyzerRegistry
)

// Terminal detection, replaced in tests.
var (
	stdinIsTerminal  = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	stderrIsTerminal = func() bool { return term.IsTerminal(int(os.Stderr.Fd())) }
)

var rootCmd = &cobra.Command{
	Use:   "comani",
	Short: "Extract and analyze commits",
	Long: `comani extracts commits from a repository and hands them to an analyzer.

Extraction and analysis run concurrently and are connected by a bounded
commit queue. Extracted commits can be cached in CDMS files and replayed
in later runs without touching the repository again.

Both stages are plug-ins selected by the run configuration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetPlugins sets the registries the commands build plug-ins from.
func SetPlugins(extractors *plugins.ExtractorRegistry, analyzers *plugins.AnalyzerRegistry) {
	extractorRegistry = extractors
	analyzerRegistry = analyzers
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
