package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docker/docker/pkg/archive"

	"github.com/babytracker/btctl/internal/config"
	"github.com/babytracker/btctl/internal/engine"
)

// Controls an image build.
type Options struct {
	Recipe   config.Recipe // Recipe to render and build.
	Tag      string        // Image reference for the result.
	Port     int           // Service port declared by the image.
	Platform string        // Target platform. Empty uses the daemon default.
	Output   io.Writer     // Destination for build progress. Nil discards it.
}

// Returned after a successful build.
type Result struct {
	Tag string // Image reference of the built image.
}

// Builds the image from the recipe.
//
// The recipe is rendered to a Dockerfile, staged into the build context
// under a temporary name, and the tar'd context is streamed to the engine.
// Rebuilding over an existing tag succeeds; the old image is untagged by
// the engine, last build wins. Any install or dependency failure aborts
// with the engine's own diagnostic and leaves no partial image tagged.
func Run(ctx context.Context, eng *engine.Engine, opts Options) (*Result, error) {
	contextDir, err := filepath.Abs(opts.Recipe.Context)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContext, err)
	}

	if err := checkInputs(contextDir, opts.Recipe); err != nil {
		return nil, err
	}

	dockerfile, err := render(opts.Recipe, opts.Port)
	if err != nil {
		return nil, err
	}

	name, cleanup, err := stageDockerfile(contextDir, dockerfile)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	slog.Info("building image",
		"tag", opts.Tag,
		"context", contextDir,
		"base", opts.Recipe.BaseImage,
		"package_manager", opts.Recipe.PackageManager,
	)

	tar, err := archive.TarWithOptions(contextDir, &archive.TarOptions{
		ExcludePatterns: contextExcludes(opts.Recipe),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContext, err)
	}
	defer tar.Close()

	if err := eng.BuildImage(ctx, tar, engine.BuildOptions{
		Tag:        opts.Tag,
		Dockerfile: name,
		Platform:   opts.Platform,
		Output:     opts.Output,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	return &Result{Tag: opts.Tag}, nil
}

// Verifies the recipe's inputs exist in the build context before anything
// is sent to the engine.
func checkInputs(contextDir string, r config.Recipe) error {
	for _, input := range []string{r.Requirements, r.AppDir, r.ConfigFile} {
		if _, err := os.Stat(filepath.Join(contextDir, input)); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrContext, input, err)
		}
	}
	return nil
}

// Patterns excluded from the build context.
//
// The live data directory never belongs in an image; only the default
// config file is re-included as the first-run fallback. The lock file and
// VCS metadata are noise.
func contextExcludes(r config.Recipe) []string {
	excludes := []string{".git"}
	if dir := filepath.Dir(r.ConfigFile); dir != "." {
		excludes = append(excludes, dir, "!"+r.ConfigFile)
	}
	return excludes
}

// Writes the rendered Dockerfile into the build context under a unique
// temporary name.
//
// The engine requires the Dockerfile to live inside the context; a
// generated name avoids clobbering a file the project may already carry.
// The returned cleanup removes the staged file.
func stageDockerfile(contextDir, content string) (string, func(), error) {
	f, err := os.CreateTemp(contextDir, ".btctl-dockerfile-*")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContext, err)
	}

	name := filepath.Base(f.Name())
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("%w: %w", ErrContext, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: %w", ErrContext, err)
	}

	return name, cleanup, nil
}
