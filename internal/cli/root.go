package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	charmlog "github.com/charmbracelet/log"

	"github.com/babytracker/btctl/internal"
	"github.com/babytracker/btctl/internal/config"
	"github.com/babytracker/btctl/internal/engine"
	"github.com/babytracker/btctl/internal/paths"
)

// Represents the root command for the btctl tool.
var RootCmd struct {
	Quiet    bool   `short:"q" help:"Suppress informational output."`
	Verbose  bool   `short:"v" help:"Enable verbose output."`
	Debug    bool   `short:"d" help:"Enable debug output."`
	Manifest string `short:"m" help:"Override the deployment manifest path." placeholder:"PATH"`
	Data     string `help:"Override the host data directory." placeholder:"DIR"`

	Build   BuildCmd   `cmd:"" help:"Build the service image from the recipe."`
	Run     RunCmd     `cmd:"" help:"Run the service in the foreground."`
	Shell   ShellCmd   `cmd:"" help:"Start an interactive shell in the service image."`
	Daemon  DaemonCmd  `cmd:"" help:"Run the service detached with automatic restarts."`
	Stop    StopCmd    `cmd:"" help:"Stop and remove the service container."`
	Status  StatusCmd  `cmd:"" help:"Show image, container, and data directory status."`
	Logs    LogsCmd    `cmd:"" help:"Show logs of the service container."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Deployment orchestrator for the babytracker service.\n\nBuilds the service image and manages its container lifecycle."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	handler, ok := slog.Default().Handler().(*charmlog.Logger)
	if !ok {
		return // Not a charm handler, nothing to configure
	}

	debug := RootCmd.Debug || internal.DefaultLogLevel() == internal.LogDebug
	quiet := RootCmd.Quiet || internal.DefaultLogLevel() == internal.LogQuiet
	verbose := RootCmd.Verbose

	if debug {
		handler.SetLevel(charmlog.DebugLevel)
	} else if quiet {
		handler.SetLevel(charmlog.WarnLevel)
	} else {
		handler.SetLevel(charmlog.InfoLevel)
	}

	handler.SetReportTimestamp(verbose)
	handler.SetReportCaller(debug && verbose)
}

// Loads the deployment manifest, honoring the root command overrides.
func loadConfig() (*config.Config, error) {
	path := RootCmd.Manifest
	if path == "" {
		path = paths.Manifest()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if RootCmd.Data != "" {
		cfg.DataDir = RootCmd.Data
	}

	return cfg, nil
}

// Resolves the host data directory, creating it when absent.
//
// A missing config.ini is worth a warning, not a failure: the image ships a
// default the service falls back to on first run.
func dataDir(cfg *config.Config) (string, error) {
	dir, err := paths.DataDir(cfg.DataDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return "", err
	}

	if _, err := os.Stat(paths.ConfigINI(dir)); err != nil {
		slog.Warn("no config.ini in the data directory; the service starts from the image default",
			"path", paths.ConfigINI(dir),
		)
	}

	return dir, nil
}

// Fails fast when the image has not been built yet, with a hint toward the
// build command.
func ensureImage(ctx context.Context, eng *engine.Engine, ref string) error {
	err := eng.EnsureImage(ctx, ref)
	if errors.Is(err, engine.ErrImageNotFound) {
		return fmt.Errorf("%w (run \"%s build\" first)", err, internal.Name)
	}
	return err
}
