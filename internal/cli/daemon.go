package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/babytracker/btctl/internal"
	"github.com/babytracker/btctl/internal/config"
	"github.com/babytracker/btctl/internal/engine"
	"github.com/babytracker/btctl/internal/lock"
)

// Represents the 'btctl daemon' command.
type DaemonCmd struct{}

// Executes the daemon command.
//
// Starts the service detached with the same volume and port binding as run,
// plus an unless-stopped restart policy, and returns once the engine has
// scheduled the container. The data directory is probed, not held: the
// container outlives this process, so the engine's container-name
// uniqueness is what keeps a second daemon out.
func (c *DaemonCmd) Run(ctx context.Context) error {
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

	if err := lock.Probe(dir); err != nil {
		return err
	}

	id, err := eng.RunDetached(ctx, engine.Spec{
		Image:                cfg.Image,
		Name:                 config.ContainerName,
		DataDir:              dir,
		Port:                 cfg.Port,
		Platform:             cfg.Platform,
		Detach:               true,
		RestartUnlessStopped: true,
	})
	if err != nil {
		if errors.Is(err, engine.ErrContainerExists) {
			return fmt.Errorf("%w (run \"%s stop\" first)", err, internal.Name)
		}
		return err
	}

	fmt.Println(id)
	slog.Info("daemon started", "container", config.ContainerName, "port", cfg.Port)
	return nil
}
