package engine

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/docker/docker/api/types/container"
	"github.com/moby/term"
	"golang.org/x/sys/unix"
)

// Puts the terminal behind the given stream into raw mode.
//
// Raw mode hands every keystroke, including control characters, to the
// container's pseudo-terminal. The returned function restores the previous
// state and is safe to call even when the stream is not a terminal.
func rawTerminal(in io.Reader) (func(), error) {
	f, ok := in.(*os.File)
	if !ok {
		return func() {}, nil
	}

	fd, isTerminal := term.GetFdInfo(f)
	if !isTerminal {
		return func() {}, nil
	}

	state, err := term.SetRawTerminal(fd)
	if err != nil {
		return func() {}, err
	}

	return func() { term.RestoreTerminal(fd, state) }, nil
}

// Keeps the container's pseudo-terminal sized to the local terminal.
//
// The size is pushed once at startup and again on every SIGWINCH until the
// context is cancelled.
func (e *Engine) resizeLoop(ctx context.Context, id string, in io.Reader) {
	f, ok := in.(*os.File)
	if !ok {
		return
	}

	fd, isTerminal := term.GetFdInfo(f)
	if !isTerminal {
		return
	}

	watchResize(ctx, func() {
		ws, err := term.GetWinsize(fd)
		if err != nil {
			return
		}
		e.client.ContainerResize(ctx, id, container.ResizeOptions{
			Height: uint(ws.Height),
			Width:  uint(ws.Width),
		})
	})
}

// Runs the push once at startup and again on every SIGWINCH until the
// context is cancelled, then releases the signal registration.
func watchResize(ctx context.Context, push func()) {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, unix.SIGWINCH)
	defer signal.Stop(sigC)

	push()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigC:
			push()
		}
	}
}
