package exec

import (
	"context"

	platformerrors "github.com/jmgilman/sysfs/errors"
)

// Runner executes command text and returns its captured lines.
//
// It is the only process-execution contract the filesystem layer relies
// on, so a native implementation can stand in for the shell.
type Runner interface {
	Run(ctx context.Context, command string) (*RunResult, error)
}

// RunResult is the outcome of a Runner invocation.
type RunResult struct {
	// Command is the command text as executed, redirection removed
	Command string

	// OutPath is the redirection target parsed from the command text
	OutPath string

	// Lines holds the captured output; empty on failure
	Lines []string

	// ErrorMessage holds the output snapshot of a failed command
	ErrorMessage string
}

// ShellRunner is a Runner that executes each command in a fresh Shell.
type ShellRunner struct {
	opts []ShellOption
}

// NewShellRunner creates a ShellRunner whose shells use opts.
func NewShellRunner(opts ...ShellOption) *ShellRunner {
	return &ShellRunner{opts: opts}
}

// Run executes command. A missing interpreter yields CodeUnavailable and a
// failing command yields CodeExecutionFailed (CodeTimeout when ctx expired)
// with the output snapshot attached under the "output" context key.
func (r *ShellRunner) Run(ctx context.Context, command string) (*RunResult, error) {
	sh := NewShellCommand(command, r.opts...)

	if !sh.IsShellAvailable() {
		return nil, platformerrors.Newf(platformerrors.CodeUnavailable,
			"command interpreter not available for: %s", sh.Command())
	}

	if sh.Command() == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidInput, "command is empty")
	}

	ok := sh.ExecuteContext(ctx, false)

	result := &RunResult{
		Command:      sh.Command(),
		OutPath:      sh.OutPath(),
		Lines:        sh.OutputLines(),
		ErrorMessage: sh.ErrorMessage(),
	}

	if !ok {
		return result, classifyRun(ctx.Err(), sh.Command(), sh.ErrorMessage())
	}
	return result, nil
}
