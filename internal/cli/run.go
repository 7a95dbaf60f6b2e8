package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/babytracker/btctl/internal/config"
	"github.com/babytracker/btctl/internal/engine"
	"github.com/babytracker/btctl/internal/lock"
)

// Represents the 'btctl run' command.
type RunCmd struct{}

// Executes the run command.
//
// Starts the service in the foreground with the data directory bound and
// the port published. The container is removed when it exits, and its exit
// code becomes the process exit code. The data directory is held under an
// advisory lock for the duration.
func (c *RunCmd) Run(ctx context.Context) error {
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

	slog.Info("running service", "image", cfg.Image, "port", cfg.Port, "data", dir)

	code, err := eng.Run(ctx, engine.Spec{
		Image:      cfg.Image,
		Name:       config.ContainerName,
		DataDir:    dir,
		Port:       cfg.Port,
		Platform:   cfg.Platform,
		AutoRemove: true,
	}, engine.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	if err != nil {
		return err
	}

	if code != 0 {
		return &engine.ExitError{Code: code}
	}
	return nil
}
