package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/babytracker/btctl/internal/config"
	"github.com/babytracker/btctl/internal/engine"
	"github.com/babytracker/btctl/internal/lock"
)

// Shell started inside the image instead of the service entry command.
const debugShell = "/bin/sh"

// Represents the 'btctl shell' command.
type ShellCmd struct{}

// Executes the shell command.
//
// Drops into an interactive shell in the service image with the data
// directory bound, for poking at the data or the installed dependencies.
// No port is published, so a shell can run while nothing else may.
func (c *ShellCmd) Run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := engine.New()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := ensureImage(ctx, eng, cfg.Image); err != nil {
		return err
	}

	dir, err := dataDir(cfg)
	if err != nil {
		return err
	}

	l, err := lock.Acquire(dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			slog.Warn("failed to release data lock", "error", err)
		}
	}()

	code, err := eng.Run(ctx, engine.Spec{
		Image:       cfg.Image,
		Name:        config.ShellContainerName,
		Cmd:         []string{debugShell},
		DataDir:     dir,
		Platform:    cfg.Platform,
		TTY:         true,
		Interactive: true,
		AutoRemove:  true,
	}, engine.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	if err != nil {
		return err
	}

	if code != 0 {
		return &engine.ExitError{Code: code}
	}
	return nil
}
