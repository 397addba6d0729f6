package main

import (
	"os"

	"grocerease/pkg/app"
	"grocerease/pkg/logging"
)

// main writes a synthetic inventory CSV; flags are handled by app.Generate.
func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if err := app.Generate(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Fatalf("inventory generation failed: %v", err)
	}
}
