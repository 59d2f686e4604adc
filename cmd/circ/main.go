// Package main provides the entry point for the circulation desk client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/biblioteca-app/circ/internal/di"
	"github.com/biblioteca-app/circ/internal/logger"
	"github.com/biblioteca-app/circ/internal/shell"
)

func main() {
	injector := di.NewContainer()

	term, err := do.Invoke[*shell.Shell](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := term.Run(ctx); err != nil {
		log.Error("session ended with error", "error", err)
	}

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
	log.Info("session closed")
}
