package tmux

import (
	"errors"
	"fmt"
)

// ErrNoServer indicates the tmux server (or the configured socket) is not
// reachable.
var ErrNoServer = errors.New("tmux server is not reachable")

// ErrInterrupted indicates a command running under tmux was interrupted
// before completing.
var ErrInterrupted = errors.New("tmux command interrupted")

// CommandError wraps a failed tmux invocation with its arguments and output.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("tmux %v failed: %v (output: %s)", e.Args, e.Err, e.Output)
}

func (e *CommandError) Unwrap() error { return e.Err }
