package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/ytsync/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{})
	err := runner.app().Run(ctx, os.Args)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrUserAborted):
		runner.logger.Info("nothing synced, selection cancelled")
	default:
		stop()
		runner.logger.Fatalf("ytsync: %v", err)
	}
}
