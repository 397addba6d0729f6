package main

import (
	"context"
	"os"

	"grocerease/pkg/app"
	"grocerease/pkg/logging"
)

// main turns the inventory CSV into the JSON document the server loads.
func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if err := app.Convert(context.Background(), os.Args[1:], logger); err != nil {
		logger.Fatalf("inventory conversion failed: %v", err)
	}
}
