package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/babytracker/btctl/internal/config"
	"github.com/babytracker/btctl/internal/engine"
	"github.com/babytracker/btctl/internal/paths"
)

// Represents the 'btctl status' command.
type StatusCmd struct{}

// Executes the status command.
func (c *StatusCmd) Run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := engine.New()
	if err != nil {
		return err
	}
	defer eng.Close()

	img, err := eng.Image(ctx, cfg.Image)
	switch {
	case errors.Is(err, engine.ErrImageNotFound):
		fmt.Printf("image:      %s (not built)\n", cfg.Image)
	case err != nil:
		return err
	default:
		fmt.Printf("image:      %s (%s, %s)\n", cfg.Image, img.ID, img.Size)
	}

	state, err := eng.ContainerStatus(ctx, config.ContainerName)
	if err != nil {
		return err
	}
	fmt.Printf("container:  %s (%s)\n", config.ContainerName, state)

	dir, err := paths.DataDir(cfg.DataDir)
	if err != nil {
		return err
	}
	configState := "present"
	if _, err := os.Stat(paths.ConfigINI(dir)); err != nil {
		configState = "missing"
	}
	fmt.Printf("data:       %s (config.ini %s)\n", dir, configState)

	return nil
}
