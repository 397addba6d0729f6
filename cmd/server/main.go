package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"grocerease/pkg/app"
	"grocerease/pkg/logging"
)

// main acts as a thin adapter so process managers can keep using cmd/server.
func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args[1:], logger); err != nil {
		logger.Fatalf("application stopped with error: %v", err)
	}
}
