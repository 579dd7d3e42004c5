// Package main is the entry point for the posixfs application.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joe/posixfs/internal/cli"
	"github.com/joe/posixfs/internal/config"
	"github.com/joe/posixfs/internal/logging"
)

func main() {
	// Parse configuration
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// Execute already printed the error with suggestions
	err = cli.New(os.Stdout, os.Stderr, logger).Execute(cfg)
	if err != nil {
		os.Exit(1)
	}
}
