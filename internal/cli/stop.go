package cli

import (
	"context"
	"log/slog"

	"github.com/babytracker/btctl/internal/config"
	"github.com/babytracker/btctl/internal/engine"
)

// Represents the 'btctl stop' command.
type StopCmd struct{}

// Executes the stop command.
//
// Stops the detached service container and removes it, which also clears
// its restart policy so it stays down.
func (c *StopCmd) Run(ctx context.Context) error {
	eng, err := engine.New()
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Stop(ctx, config.ContainerName); err != nil {
		return err
	}

	slog.Info("service stopped", "container", config.ContainerName)
	return nil
}
