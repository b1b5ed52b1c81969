package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/comani/internal/adapters/driven/config/file"
	"github.com/custodia-labs/comani/internal/adapters/driven/storage/cdms"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
	"github.com/custodia-labs/comani/internal/core/queue"
	"github.com/custodia-labs/comani/internal/core/services"
	"github.com/custodia-labs/comani/internal/logger"
)

// EndOfInput terminates the commit text in interactive mode.
const EndOfInput = "!q!"

const runOrigin = "comani"

// ErrPipelineFailed is returned when extraction or analysis did not succeed.
var ErrPipelineFailed = errors.New("pipeline failed")

var runInteractive bool

var runCmd = &cobra.Command{
	Use:   "run <config>",
	Short: "Extract and analyze commits",
	Long: `Run extraction and analysis as described by a configuration file.

The configuration file may be a .properties, .ini, .toml or .yaml file.
Keys are grouped by the prefixes core., extraction. and analysis.

With --interactive a single commit is read from standard input until a
line containing only ` + EndOfInput + ` or end of input, and extracted instead of
the repository named by extraction.input.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runInteractive, "interactive", "i", false, "read a single commit from standard input")
	rootCmd.AddCommand(runCmd)
}

func openCache(dir string) driven.CommitCache {
	return cdms.NewStore(dir)
}

func runRun(cmd *cobra.Command, args []string) error {
	if extractorRegistry == nil || analyzerRegistry == nil {
		return errors.New("plug-ins not configured")
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("configuration file: %w", err)
	}
	cfg, err := file.NewConfigStore(path)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	commitText := ""
	if runInteractive {
		if stdinIsTerminal() {
			cmd.PrintErrf("Enter the commit to extract and finish with a line containing only %s\n", EndOfInput)
		}
		commitText, err = readCommitText(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read commit: %w", err)
		}
		if strings.TrimSpace(commitText) == "" {
			return errors.New("no commit given on standard input")
		}
	}

	settings, err := services.LoadSettings(cfg, commitText, openCache)
	if err != nil {
		return err
	}

	level, _ := logger.ParseLevel(settings.LogLevel)
	log := logger.New(cmd.ErrOrStderr(), level)
	log.SetStyled(stderrIsTerminal())

	runID := uuid.NewString()
	commits := queue.New(settings.QueueMaxElements, log)

	extraction := services.NewExtractionManager(services.ExtractionConfig{
		OS:         settings.OS,
		VCS:        settings.VCS,
		Properties: settings.Extraction,
		Queue:      commits,
		CommitText: settings.CommitText,
		Registry:   extractorRegistry,
		Logger:     log,
		OpenCache:  openCache,
	})
	analysis := services.NewAnalysisManager(services.AnalysisConfig{
		OS:         settings.OS,
		VCS:        settings.VCS,
		Properties: settings.Analysis,
		Queue:      commits,
		RunID:      runID,
		Registry:   analyzerRegistry,
		Logger:     log,
	})
	pipeline := services.NewPipeline(extraction, analysis, log)

	log.Section("comani " + version)
	log.Info(runOrigin, "Run %s started", runID)
	start := time.Now()

	ok := pipeline.Run(cmd.Context())

	log.Info(runOrigin, "Run %s terminated after %s", runID, time.Since(start).Round(time.Millisecond))
	if !ok {
		return ErrPipelineFailed
	}
	return nil
}

// readCommitText reads lines until EndOfInput or end of input.
func readCommitText(r io.Reader) (string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == EndOfInput {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	if len(lines) == 0 {
		return "", nil
	}
	return strings.Join(lines, "\n") + "\n", nil
}
