package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/luc-dc/vss2git/internal/config"
	"github.com/luc-dc/vss2git/internal/errors"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := NewDefaultApp(config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-c
		fmt.Printf("\nReceived signal %v, stopping after the current release...\n", sig)
		cancel()
	}()

	if err := app.CLI().RunContext(ctx, os.Args); err != nil {
		// A cancelled context is the normal signal shutdown path
		if !errors.Is(err, context.Canceled) {
			_, _ = fmt.Fprintf(app.Stderr, "❌ Error: %v\n", err)
			app.exit(exitCode(err))
		}
	}
}

// exitCode maps error kinds to the exit codes of the original tool:
// 2 for source-side failures, 3 for git failures, 1 otherwise.
func exitCode(err error) int {
	switch {
	case errors.Is(err, errors.ErrVSSOperationFailed),
		errors.Is(err, errors.ErrCheckoutFailed):
		return 2
	case errors.Is(err, errors.ErrGitOperationFailed):
		return 3
	default:
		return 1
	}
}
