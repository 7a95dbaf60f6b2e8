package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/stdcopy"
)

// Seconds the engine gives a container to exit before killing it.
const stopTimeout = 10

// Observable container lifecycle states, collapsed to what the operator
// needs to act on.
type ContainerState string

const (
	ContainerRunning    ContainerState = "running"
	ContainerRestarting ContainerState = "restarting"
	ContainerStopped    ContainerState = "stopped"
	ContainerNotCreated ContainerState = "not created"
)

// Streams connected to a foreground container.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Creates a container from the spec.
//
// A name collision means an instance already exists; that is reported as a
// typed error so callers can distinguish it from engine failures.
func (e *Engine) create(ctx context.Context, s Spec) (string, error) {
	p, err := platform(s)
	if err != nil {
		return "", err
	}

	resp, err := e.client.ContainerCreate(ctx, containerConfig(s), hostConfig(s), nil, p, s.Name)
	if err != nil {
		if errdefs.IsConflict(err) {
			return "", fmt.Errorf("%w: %s", ErrContainerExists, s.Name)
		}
		return "", fmt.Errorf("%w: %w", ErrEngine, err)
	}

	for _, w := range resp.Warnings {
		slog.Warn("engine warning", "container", s.Name, "warning", w)
	}

	return resp.ID, nil
}

// Runs a container in the foreground and returns its exit code.
//
// The container is created, the streams are attached before start so no
// early output is lost, and the exit watch is registered before start so an
// immediate exit cannot be missed. Cancelling the context stops the
// container and still reports its final status. Port conflicts and other
// start failures surface unchanged from the engine; the failed container is
// removed so no stopped instance is left behind.
func (e *Engine) Run(ctx context.Context, s Spec, streams Streams) (int, error) {
	id, err := e.create(ctx, s)
	if err != nil {
		return 0, err
	}

	attach, err := e.client.ContainerAttach(ctx, id, container.AttachOptions{
		Stream: true,
		Stdin:  s.Interactive,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		e.removeQuietly(ctx, id)
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	defer attach.Close()

	// The wait must survive a cancelled run context so the final status is
	// still observed after an interrupt-triggered stop.
	waitCtx := context.WithoutCancel(ctx)
	waitC, waitErrC := e.client.ContainerWait(waitCtx, id, container.WaitConditionNextExit)

	if err := e.client.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		e.removeQuietly(ctx, id)
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}

	slog.Debug("container started", "id", shortID(id), "name", s.Name, "image", s.Image)

	if s.TTY {
		restore, err := rawTerminal(streams.In)
		if err != nil {
			slog.Warn("terminal raw mode unavailable", "error", err)
		}
		defer restore()

		// The watcher must not outlive this run; it holds a SIGWINCH
		// registration.
		resizeCtx, stopResize := context.WithCancel(ctx)
		defer stopResize()
		go e.resizeLoop(resizeCtx, id, streams.In)
	}

	streamDone := make(chan error, 1)
	go func() {
		var err error
		if s.TTY {
			_, err = io.Copy(streams.Out, attach.Reader)
		} else {
			_, err = stdcopy.StdCopy(streams.Out, streams.Err, attach.Reader)
		}
		streamDone <- err
	}()

	if s.Interactive && streams.In != nil {
		go func() {
			io.Copy(attach.Conn, streams.In)
			attach.CloseWrite()
		}()
	}

	for {
		select {
		case res := <-waitC:
			<-streamDone
			if res.Error != nil {
				return 0, fmt.Errorf("%w: %s", ErrEngine, res.Error.Message)
			}
			return int(res.StatusCode), nil

		case err := <-waitErrC:
			return 0, fmt.Errorf("%w: %w", ErrEngine, err)

		case <-ctx.Done():
			slog.Debug("interrupt, stopping container", "name", s.Name)
			e.stopQuietly(waitCtx, id)
			ctx = context.Background() // Fall through to the wait result.
		}
	}
}

// Starts a container detached and returns its identifier.
//
// Returns as soon as the engine has scheduled the container; the caller's
// terminal is never attached.
func (e *Engine) RunDetached(ctx context.Context, s Spec) (string, error) {
	id, err := e.create(ctx, s)
	if err != nil {
		return "", err
	}

	if err := e.client.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		e.removeQuietly(ctx, id)
		return "", fmt.Errorf("%w: %w", ErrEngine, err)
	}

	slog.Debug("container started detached", "id", shortID(id), "name", s.Name)
	return shortID(id), nil
}

// Stops a named container and removes it.
//
// Removal also clears the restart policy, so a daemon container stays down.
// Auto-removed containers may vanish between the stop and the remove; that
// is not an error.
func (e *Engine) Stop(ctx context.Context, name string) error {
	insp, err := e.client.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrContainerNotFound, name)
		}
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	timeout := stopTimeout
	if err := e.client.ContainerStop(ctx, insp.ID, container.StopOptions{Timeout: &timeout}); err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	if err := e.client.ContainerRemove(ctx, insp.ID, container.RemoveOptions{}); err != nil && !errdefs.IsNotFound(err) {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	slog.Debug("container stopped", "name", name)
	return nil
}

// Queries the lifecycle state of a named container.
func (e *Engine) ContainerStatus(ctx context.Context, name string) (ContainerState, error) {
	insp, err := e.client.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return ContainerNotCreated, nil
		}
		return "", fmt.Errorf("%w: %w", ErrEngine, err)
	}

	switch {
	case insp.State == nil:
		return ContainerStopped, nil
	case insp.State.Running:
		return ContainerRunning, nil
	case insp.State.Restarting:
		return ContainerRestarting, nil
	default:
		return ContainerStopped, nil
	}
}

// Streams the logs of a named container.
//
// Follow keeps the stream open until the context is cancelled or the
// container stops. The engine multiplexes stdout and stderr for non-TTY
// containers; the stream is demultiplexed accordingly.
func (e *Engine) Logs(ctx context.Context, name string, streams Streams, follow bool, tail string) error {
	insp, err := e.client.ContainerInspect(ctx, name)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrContainerNotFound, name)
		}
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	rc, err := e.client.ContainerLogs(ctx, insp.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     follow,
		Tail:       tail,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	defer rc.Close()

	if insp.Config != nil && insp.Config.Tty {
		_, err = io.Copy(streams.Out, rc)
	} else {
		_, err = stdcopy.StdCopy(streams.Out, streams.Err, rc)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return nil
}

// Removes a container after a failed start so no stopped instance lingers.
func (e *Engine) removeQuietly(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	if err := e.client.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil && !errdefs.IsNotFound(err) {
		slog.Warn("failed to remove container", "id", shortID(id), "error", err)
	}
}

// Stops a container, tolerating its disappearance.
func (e *Engine) stopQuietly(ctx context.Context, id string) {
	timeout := stopTimeout
	if err := e.client.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil && !errdefs.IsNotFound(err) {
		slog.Warn("failed to stop container", "id", shortID(id), "error", err)
	}
}
