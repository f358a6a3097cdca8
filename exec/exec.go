package exec

import (
	"context"
	"io"
	"strings"
)

// Executor runs a single program with a fluent configuration API.
//
// Settings made through the With* methods are local to the next Run and are
// cleared afterwards. Implementations are not required to be safe for
// concurrent use; Clone gives each caller its own copy.
type Executor interface {
	// WithEnv adds environment variables for the next run.
	WithEnv(env map[string]string) Executor

	// WithDir sets the working directory for the next run.
	WithDir(dir string) Executor

	// WithContext binds the next run to ctx; cancelling ctx kills the process.
	WithContext(ctx context.Context) Executor

	// WithDisableColors sets NO_COLOR, TERM=dumb and related variables so
	// tools such as ls emit plain text.
	WithDisableColors() Executor

	// WithTimeout bounds the next run by a duration string such as "5s".
	WithTimeout(timeout string) Executor

	// WithInheritEnv passes the parent's environment to the process.
	WithInheritEnv() Executor

	// WithStdout sets the passthrough writer for stdout.
	WithStdout(w io.Writer) Executor

	// WithStderr sets the passthrough writer for stderr.
	WithStderr(w io.Writer) Executor

	// WithPassthrough streams output to the stdout/stderr writers while still
	// capturing it.
	WithPassthrough() Executor

	// Run executes args[0] with the remaining arguments. A non-zero exit is
	// reported as *ExecError together with a non-nil Result.
	Run(args ...string) (*Result, error)

	// Clone returns an executor with the same global configuration.
	Clone() Executor
}

// Result is the captured outcome of a run.
type Result struct {
	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Combined holds stdout and stderr interleaved in write order
	Combined string

	// ExitCode is the process exit code, -1 if the process never ran
	ExitCode int
}

// Success reports whether the process ran and exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Lines splits the combined output into lines.
func (r *Result) Lines() []string {
	if r == nil {
		return nil
	}
	return splitLines(r.Combined)
}

// splitLines splits s on '\n' like a line reader: no empty line is produced
// for a trailing newline, and empty input yields no lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
