package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/comani/internal/adapters/driven/storage/cdms"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect cached commits",
	Long: `Inspect commits cached in CDMS files.

Commits are cached when extraction.cache names a directory and can be
replayed by pointing extraction.reuse at that directory.`,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a cached commit",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheShow,
}

var cacheListCmd = &cobra.Command{
	Use:   "list <dir>",
	Short: "List the commits cached in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheList,
}

func init() {
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheListCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	commit, err := cdms.ReadFile(args[0])
	if err != nil {
		return err
	}
	cmd.Print(commit.String())
	return nil
}

func runCacheList(cmd *cobra.Command, args []string) error {
	store := cdms.NewStore(args[0])
	paths, err := store.List()
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		cmd.Printf("No cached commits in %s\n", args[0])
		return nil
	}

	for _, path := range paths {
		commit, err := store.Load(path)
		if err != nil {
			cmd.PrintErrf("%s: %v\n", filepath.Base(path), err)
			continue
		}
		cmd.Printf("%s  %s  %d artifacts\n", commit.ID, commit.Date, len(commit.ChangedArtifacts))
	}
	return nil
}
