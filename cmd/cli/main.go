package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/de-tools/lab-costing/pkg/logging"
	"github.com/de-tools/lab-costing/pkg/runtime/terminal"
)

func main() {
	_ = godotenv.Load()

	level := os.Getenv("LABCOST_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger, err := logging.NewLogger(level, "console", os.Stderr)
	if err != nil {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	cli := terminal.NewCLI(terminal.Options{
		Backend: terminal.NewBackend(),
		Output:  os.Stdout,
	})

	if err := cli.ExecuteContext(logger.WithContext(context.Background())); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
