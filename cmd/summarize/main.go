// Command underwriter summarizes seller order exports from the command line.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/piyushmakhija5/ai-playground/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		slog.Debug("command failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
