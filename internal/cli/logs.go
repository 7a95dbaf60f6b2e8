package cli

import (
	"context"
	"os"

	"github.com/babytracker/btctl/internal/config"
	"github.com/babytracker/btctl/internal/engine"
)

// Represents the 'btctl logs' command.
type LogsCmd struct {
	Follow bool   `short:"f" help:"Follow log output."`
	Tail   string `default:"all" help:"Number of lines to show from the end." placeholder:"N"`
}

// Executes the logs command.
func (c *LogsCmd) Run(ctx context.Context) error {
	eng, err := engine.New()
	if err != nil {
		return err
	}
	defer eng.Close()

	return eng.Logs(ctx, config.ContainerName,
		engine.Streams{Out: os.Stdout, Err: os.Stderr},
		c.Follow, c.Tail,
	)
}
