package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/jsonmessage"
	units "github.com/docker/go-units"
	"github.com/moby/term"
	"github.com/opencontainers/go-digest"
)

// Looks up local images by reference. The engine client satisfies it; a
// double stands in when the precondition paths are tested.
type imageInspector interface {
	ImageInspectWithRaw(ctx context.Context, ref string) (types.ImageInspect, []byte, error)
}

// Manages the Docker Engine API client and provides image and container
// operations.
type Engine struct {
	client *client.Client // Engine API client for managing containers and images.
	images imageInspector // Image lookups, split off the client so preconditions are testable.
}

// Creates an engine client from the standard environment (DOCKER_HOST and
// friends), negotiating the API version with the daemon.
//
// The engine must be closed when no longer needed.
func New() (*Engine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return &Engine{client: cli, images: cli}, nil
}

// Closes the engine client connection.
func (e *Engine) Close() error {
	return e.client.Close()
}

// Reports whether an image with the given reference exists locally.
func (e *Engine) ImageExists(ctx context.Context, ref string) (bool, error) {
	_, _, err := e.images.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return true, nil
}

// Verifies that the image exists before a container operation is dispatched.
//
// The engine's own not-found diagnostic only surfaces once a create call is
// already in flight; this check turns the unenforced build-before-run
// ordering into a typed precondition failure.
func (e *Engine) EnsureImage(ctx context.Context, ref string) error {
	ok, err := e.ImageExists(ctx, ref)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrImageNotFound, ref)
	}
	return nil
}

// Summary of a local image, formatted for operator output.
type ImageInfo struct {
	ID   string   // Truncated image digest.
	Size string   // Human-readable image size.
	Tags []string // Repo tags pointing at the image.
}

// Looks up a local image and returns its summary.
func (e *Engine) Image(ctx context.Context, ref string) (*ImageInfo, error) {
	insp, _, err := e.images.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, ref)
		}
		return nil, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	return &ImageInfo{
		ID:   shortID(insp.ID),
		Size: units.HumanSize(float64(insp.Size)),
		Tags: insp.RepoTags,
	}, nil
}

// Controls an image build.
type BuildOptions struct {
	Tag        string    // Image reference to tag the result with.
	Dockerfile string    // Dockerfile name relative to the build context.
	Platform   string    // Target platform (e.g. "linux/arm64"). Empty uses the daemon default.
	Output     io.Writer // Destination for the build progress stream. Nil discards it.
}

// Builds an image from a tar'd build context.
//
// The daemon's progress stream is decoded and rendered to the output
// writer. A failing build step surfaces as an error carrying the daemon's
// own message; intermediate containers are removed either way, and the
// target tag is only moved on success (the daemon's layer semantics, not
// ours).
func (e *Engine) BuildImage(ctx context.Context, buildContext io.Reader, opts BuildOptions) error {
	resp, err := e.client.ImageBuild(ctx, buildContext, types.ImageBuildOptions{
		Tags:        []string{opts.Tag},
		Dockerfile:  opts.Dockerfile,
		Platform:    opts.Platform,
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	defer resp.Body.Close()

	out := opts.Output
	if out == nil {
		out = io.Discard
	}

	fd, isTerminal := term.GetFdInfo(out)
	if err := jsonmessage.DisplayJSONMessagesStream(resp.Body, out, fd, isTerminal, nil); err != nil {
		var jerr *jsonmessage.JSONError
		if errors.As(err, &jerr) {
			return fmt.Errorf("%w: %s", ErrEngine, jerr.Message)
		}
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	slog.Debug("image built", "tag", opts.Tag)
	return nil
}

// Truncates an image or container identifier for display.
//
// Full identifiers are OCI digests ("sha256:..."); the algorithm prefix is
// stripped before truncation so the result matches what the engine's own
// tooling prints.
func shortID(id string) string {
	if dgst, err := digest.Parse(id); err == nil {
		id = dgst.Encoded()
	} else {
		id = strings.TrimPrefix(id, "sha256:")
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
