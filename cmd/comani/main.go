// Command comani extracts commits from a repository and analyzes them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/comani/internal/adapters/driving/cli"
	"github.com/custodia-labs/comani/internal/plugins"
	"github.com/custodia-labs/comani/internal/plugins/builtin"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractors := plugins.NewExtractorRegistry()
	analyzers := plugins.NewAnalyzerRegistry()
	builtin.Register(extractors, analyzers)

	cli.SetPlugins(extractors, analyzers)
	cli.SetVersion(version)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
