package main

import (
	"errors"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/babytracker/btctl/internal"
	"github.com/babytracker/btctl/internal/cli"
	"github.com/babytracker/btctl/internal/engine"
)

// The entry point for the btctl tool.
//
// Initializes logging, displays startup information, and executes the root
// command. A foreground container's exit code becomes the process exit
// code; any other error exits with code 1.
func main() {
	slog.SetDefault(logger())

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("btctl is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		var exitErr *engine.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Creates the logger seeded from build-time linker flags.
//
// The logger is reconfigured after flag parsing via cli.Execute.
func logger() *slog.Logger {
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix: internal.Name,
		Level:  logLevel(),
	})
	return slog.New(handler)
}

// Returns the log level derived from build-time linker flags.
func logLevel() charmlog.Level {
	switch internal.DefaultLogLevel() {
	case internal.LogDebug:
		return charmlog.DebugLevel
	case internal.LogQuiet:
		return charmlog.WarnLevel
	default:
		return charmlog.InfoLevel
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
