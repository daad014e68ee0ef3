// ./main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/loginprobe/cmd"
	"github.com/xkilldash9x/loginprobe/internal/observability"
)

// main is the entry point for the loginprobe CLI.
func main() {
	// Interrupt signals cancel the run context so in-flight scenarios are
	// abandoned gracefully and the report still gets written.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
