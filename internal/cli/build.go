package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/babytracker/btctl/internal/build"
	"github.com/babytracker/btctl/internal/engine"
)

// Represents the 'btctl build' command.
type BuildCmd struct{}

// Executes the build command.
//
// Renders the recipe and streams the engine build to the terminal. Building
// over an existing image succeeds; last build wins.
func (c *BuildCmd) Run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, err := engine.New()
	if err != nil {
		return err
	}
	defer eng.Close()

	result, err := build.Run(ctx, eng, build.Options{
		Recipe:   cfg.Recipe,
		Tag:      cfg.Image,
		Port:     cfg.Port,
		Platform: cfg.Platform,
		Output:   os.Stdout,
	})
	if err != nil {
		return err
	}

	slog.Info("image built", "tag", result.Tag)
	return nil
}
