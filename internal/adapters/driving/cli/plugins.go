package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the available extractors and analyzers",
	RunE:  runPlugins,
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}

func runPlugins(cmd *cobra.Command, _ []string) error {
	if extractorRegistry == nil || analyzerRegistry == nil {
		return errors.New("plug-ins not configured")
	}

	cmd.Println("Extractors:")
	for _, name := range extractorRegistry.Names() {
		cmd.Printf("  %s\n", name)
	}
	cmd.Println()
	cmd.Println("Analyzers:")
	for _, name := range analyzerRegistry.Names() {
		cmd.Printf("  %s\n", name)
	}
	return nil
}
