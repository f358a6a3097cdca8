package exec

import (
	"context"
	"io"
	"maps"
)

// Option configures a Command at creation time. Global settings apply to
// every run and are overridden by the matching local With* call.
type Option func(*Command)

// WithEnv returns an Option that sets global environment variables.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		maps.Copy(c.config.global.env, env)
	}
}

// WithDir returns an Option that sets the global working directory.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.config.global.dir = dir
	}
}

// WithContext returns an Option that sets the base context of every run.
func WithContext(ctx context.Context) Option {
	return func(c *Command) {
		c.ctx = ctx
	}
}

// WithDisableColors returns an Option that globally disables color output.
func WithDisableColors() Option {
	return func(c *Command) {
		c.config.global.disableColors = true
	}
}

// WithTimeout returns an Option that bounds every run by timeout.
func WithTimeout(timeout string) Option {
	return func(c *Command) {
		c.config.global.timeout = timeout
	}
}

// WithInheritEnv returns an Option that globally enables environment inheritance.
func WithInheritEnv() Option {
	return func(c *Command) {
		c.config.global.inheritEnv = true
	}
}

// WithStdout returns an Option that sets the passthrough stdout writer.
func WithStdout(w io.Writer) Option {
	return func(c *Command) {
		c.stdout = w
	}
}

// WithStderr returns an Option that sets the passthrough stderr writer.
func WithStderr(w io.Writer) Option {
	return func(c *Command) {
		c.stderr = w
	}
}

// WithPassthrough returns an Option that globally enables output passthrough.
func WithPassthrough() Option {
	return func(c *Command) {
		c.config.global.passthrough = true
	}
}

// settings is one layer of run configuration.
type settings struct {
	env           map[string]string
	dir           string
	timeout       string
	inheritEnv    bool
	disableColors bool
	passthrough   bool
}

// config layers local settings over global ones. A local flag only takes
// effect once it has been explicitly set.
type config struct {
	global settings
	local  settings

	localSet struct {
		inheritEnv    bool
		disableColors bool
		passthrough   bool
	}
}

func newConfig() *config {
	c := &config{}
	c.global.env = make(map[string]string)
	c.local.env = make(map[string]string)
	return c
}

// clone copies the global layer only; local settings never survive a clone.
func (c *config) clone() *config {
	clone := newConfig()
	env := clone.global.env
	clone.global = c.global
	clone.global.env = env
	maps.Copy(clone.global.env, c.global.env)
	return clone
}

var colorEnv = map[string]string{
	"NO_COLOR":       "1",
	"TERM":           "dumb",
	"CLICOLOR":       "0",
	"CLICOLOR_FORCE": "0",
	"FORCE_COLOR":    "0",
}

func (c *config) env() map[string]string {
	env := make(map[string]string, len(c.global.env)+len(c.local.env))
	maps.Copy(env, c.global.env)
	maps.Copy(env, c.local.env)

	if c.disableColors() {
		maps.Copy(env, colorEnv)
	}
	return env
}

func (c *config) dir() string {
	if c.local.dir != "" {
		return c.local.dir
	}
	return c.global.dir
}

func (c *config) timeout() string {
	if c.local.timeout != "" {
		return c.local.timeout
	}
	return c.global.timeout
}

func (c *config) inheritEnv() bool {
	if c.localSet.inheritEnv {
		return c.local.inheritEnv
	}
	return c.global.inheritEnv
}

func (c *config) disableColors() bool {
	if c.localSet.disableColors {
		return c.local.disableColors
	}
	return c.global.disableColors
}

func (c *config) passthrough() bool {
	if c.localSet.passthrough {
		return c.local.passthrough
	}
	return c.global.passthrough
}

// resetLocal clears the local layer after a run.
func (c *config) resetLocal() {
	c.local = settings{env: make(map[string]string)}
	c.localSet.inheritEnv = false
	c.localSet.disableColors = false
	c.localSet.passthrough = false
}
