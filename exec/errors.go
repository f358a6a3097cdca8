package exec

import (
	"context"
	"errors"
	"fmt"
	"strings"

	platformerrors "github.com/jmgilman/sysfs/errors"
)

// ExecError describes a run that failed to start or exited non-zero.
type ExecError struct {
	// Command is the argv that was executed
	Command []string

	// ExitCode is the process exit code, -1 if it never ran
	ExitCode int

	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Err is the underlying error from os/exec
	Err error
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %v failed with exit code %d: %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %v failed with exit code %d", e.Command, e.ExitCode)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// classifyRun converts a failed shell run into a platform error. snapshot
// is the captured output kept for diagnostics.
func classifyRun(ctxErr error, command, snapshot string) error {
	var err platformerrors.PlatformError
	switch {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		err = platformerrors.Wrapf(ctxErr, platformerrors.CodeTimeout, "command timed out: %s", command)
	case ctxErr != nil:
		err = platformerrors.Wrapf(ctxErr, platformerrors.CodeExecutionFailed, "command canceled: %s", command)
	default:
		err = platformerrors.Newf(platformerrors.CodeExecutionFailed, "command failed: %s", command)
	}

	err = platformerrors.WithContext(err, "command", command)
	if snapshot = strings.TrimSpace(snapshot); snapshot != "" {
		err = platformerrors.WithContext(err, "output", snapshot)
	}
	return err
}
