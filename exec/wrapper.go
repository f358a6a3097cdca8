package exec

import (
	"context"
	"io"
)

// CommandWrapper binds an Executor to one program and prepends it to every
// Run, for example a command interpreter invoked as `sh -c <text>`. It
// implements Executor itself, so wrappers can be passed anywhere an
// Executor is expected.
type CommandWrapper struct {
	executor Executor
	program  string
}

// NewWrapper returns a wrapper that runs program through executor.
func NewWrapper(executor Executor, program string) *CommandWrapper {
	return &CommandWrapper{executor: executor, program: program}
}

// Program returns the wrapped program name.
func (w *CommandWrapper) Program() string {
	return w.program
}

func (w *CommandWrapper) WithEnv(env map[string]string) Executor {
	w.executor = w.executor.WithEnv(env)
	return w
}

func (w *CommandWrapper) WithDir(dir string) Executor {
	w.executor = w.executor.WithDir(dir)
	return w
}

func (w *CommandWrapper) WithContext(ctx context.Context) Executor {
	w.executor = w.executor.WithContext(ctx)
	return w
}

func (w *CommandWrapper) WithDisableColors() Executor {
	w.executor = w.executor.WithDisableColors()
	return w
}

func (w *CommandWrapper) WithTimeout(timeout string) Executor {
	w.executor = w.executor.WithTimeout(timeout)
	return w
}

func (w *CommandWrapper) WithInheritEnv() Executor {
	w.executor = w.executor.WithInheritEnv()
	return w
}

func (w *CommandWrapper) WithStdout(out io.Writer) Executor {
	w.executor = w.executor.WithStdout(out)
	return w
}

func (w *CommandWrapper) WithStderr(out io.Writer) Executor {
	w.executor = w.executor.WithStderr(out)
	return w
}

func (w *CommandWrapper) WithPassthrough() Executor {
	w.executor = w.executor.WithPassthrough()
	return w
}

// Run executes the wrapped program with args appended.
func (w *CommandWrapper) Run(args ...string) (*Result, error) {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, w.program)
	argv = append(argv, args...)
	return w.executor.Run(argv...)
}

// Clone returns a wrapper around a clone of the underlying executor.
func (w *CommandWrapper) Clone() Executor {
	return &CommandWrapper{executor: w.executor.Clone(), program: w.program}
}
