package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version can be set during build with -ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	cmd.Version = version
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
