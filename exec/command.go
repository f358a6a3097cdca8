package exec

import (
	"context"
	"io"
	"os"
	osexec "os/exec"
	"time"
)

// Command is the os/exec backed Executor.
type Command struct {
	config   *config
	ctx      context.Context
	localCtx context.Context
	stdout   io.Writer
	stderr   io.Writer
}

// New creates a Command with the given global options.
func New(opts ...Option) *Command {
	cmd := &Command{
		config: newConfig(),
		ctx:    context.Background(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(cmd)
	}

	return cmd
}

// WithEnv sets environment variables for the next run.
func (c *Command) WithEnv(env map[string]string) Executor {
	for k, v := range env {
		c.config.local.env[k] = v
	}
	return c
}

// WithDir sets the working directory for the next run.
func (c *Command) WithDir(dir string) Executor {
	c.config.local.dir = dir
	return c
}

// WithContext sets the context for the next run.
func (c *Command) WithContext(ctx context.Context) Executor {
	c.localCtx = ctx
	return c
}

// WithDisableColors disables color output for the next run.
func (c *Command) WithDisableColors() Executor {
	c.config.local.disableColors = true
	c.config.localSet.disableColors = true
	return c
}

// WithTimeout sets a timeout for the next run.
func (c *Command) WithTimeout(timeout string) Executor {
	c.config.local.timeout = timeout
	return c
}

// WithInheritEnv enables environment inheritance for the next run.
func (c *Command) WithInheritEnv() Executor {
	c.config.local.inheritEnv = true
	c.config.localSet.inheritEnv = true
	return c
}

// WithStdout sets the stdout passthrough writer.
func (c *Command) WithStdout(w io.Writer) Executor {
	c.stdout = w
	return c
}

// WithStderr sets the stderr passthrough writer.
func (c *Command) WithStderr(w io.Writer) Executor {
	c.stderr = w
	return c
}

// WithPassthrough enables output passthrough for the next run.
func (c *Command) WithPassthrough() Executor {
	c.config.local.passthrough = true
	c.config.localSet.passthrough = true
	return c
}

// Run executes the command with the given arguments. Local settings are
// reset afterwards whether or not the run succeeds.
func (c *Command) Run(args ...string) (*Result, error) {
	defer c.reset()

	if len(args) == 0 {
		return nil, &ExecError{Command: args, ExitCode: -1, Err: osexec.ErrNotFound}
	}

	ctx := c.ctx
	if c.localCtx != nil {
		ctx = c.localCtx
	}

	if timeout := c.config.timeout(); timeout != "" {
		duration, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, &ExecError{Command: args, ExitCode: -1, Err: err}
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	cmd := c.build(ctx, args)

	var stdout, stderr *capture
	if c.config.passthrough() {
		stdout, stderr = newCapture(c.stdout), newCapture(c.stderr)
	} else {
		stdout, stderr = newCapture(nil), newCapture(nil)
	}
	combined := newCapture(nil)

	// os/exec drains both pipes in their own goroutines while the child
	// runs, so a chatty child never blocks on a full pipe.
	cmd.Stdout = newMultiWriter(stdout, combined)
	cmd.Stderr = newMultiWriter(stderr, combined)

	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if err != nil {
		return result, &ExecError{
			Command:  args,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
			Err:      err,
		}
	}

	return result, nil
}

func (c *Command) build(ctx context.Context, args []string) *osexec.Cmd {
	cmd := osexec.CommandContext(ctx, args[0], args[1:]...)

	if dir := c.config.dir(); dir != "" {
		cmd.Dir = dir
	}

	env := c.config.env()
	if c.config.inheritEnv() {
		cmd.Env = os.Environ()
	} else if len(env) > 0 {
		cmd.Env = make([]string, 0, len(env))
	}
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	return cmd
}

func (c *Command) reset() {
	c.config.resetLocal()
	c.localCtx = nil
}

// Clone creates a copy of the executor with the same global configuration.
func (c *Command) Clone() Executor {
	return &Command{
		config: c.config.clone(),
		ctx:    c.ctx,
		stdout: c.stdout,
		stderr: c.stderr,
	}
}
