package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/comani/internal/adapters/driven/config/file"
	"github.com/custodia-labs/comani/internal/core/domain"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage run configurations",
}

var configInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write a configuration template",
	Long: `Write a configuration template to path.

The format follows the file extension: .properties, .ini, .cfg, .toml,
.yaml or .yml. An existing file is only replaced with --force.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "replace an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// templateValues are written by config init.
func templateValues() map[string]any {
	return map[string]any{
		domain.KeyOS:               runtime.GOOS,
		domain.KeyVCS:              "git",
		domain.KeyLogLevel:         domain.DefaultLogLevel,
		domain.KeyQueueMaxElements: domain.DefaultQueueElements,
		domain.KeyExtractor:        "git",
		domain.KeyInput:            ".",
		domain.KeyAnalyzer:         "stats",
		domain.KeyOutput:           domain.MemoryOutput,
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := args[0]
	store, err := file.NewConfigStore(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		if !configForce {
			return fmt.Errorf("%s already exists, use --force to replace it", path)
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		// Start from an empty store
		if err := store.Load(); err != nil {
			return err
		}
	}

	for key, value := range templateValues() {
		store.Set(key, value)
	}
	if err := store.Save(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	cmd.Printf("Wrote configuration template to %s\n", path)
	return nil
}
