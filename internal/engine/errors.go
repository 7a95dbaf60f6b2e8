package engine

import (
	"errors"
	"fmt"
)

var (
	ErrEngine            = errors.New("engine operation failed")
	ErrImageNotFound     = errors.New("image not found")
	ErrContainerNotFound = errors.New("container not found")
	ErrContainerExists   = errors.New("container already exists")
)

// Carries a foreground container's non-zero exit code to the process exit.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("container exited with status %d", e.Code)
}
