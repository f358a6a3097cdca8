// Package config loads the sysfs CLI settings from a TOML file, or from a
// YAML file when the path ends in .yaml or .yml.
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-git/go-billy/v5/osfs"
	"gopkg.in/yaml.v3"

	platformerrors "github.com/jmgilman/sysfs/errors"
	"github.com/jmgilman/sysfs/exec"
	"github.com/jmgilman/sysfs/internal/logging"
)

// Config holds the settings shared by every sysfs command.
type Config struct {
	// Shell is the interpreter used for delegated commands.
	Shell string `toml:"shell" yaml:"shell"`

	// OutputRoot is the directory redirected command output is written under.
	OutputRoot string `toml:"output_root" yaml:"output_root"`

	LogLevel string `toml:"log_level" yaml:"log_level"`
	LogJSON  bool   `toml:"log_json" yaml:"log_json"`

	// DirMode and FileMode are the permissions used by mkdir and touch.
	DirMode  uint32 `toml:"dir_mode" yaml:"dir_mode"`
	FileMode uint32 `toml:"file_mode" yaml:"file_mode"`

	// Timeout bounds every delegated command, as a duration such as "30s".
	// Empty means no bound.
	Timeout string `toml:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Env is added to the inherited environment of delegated commands.
	Env map[string]string `toml:"env,omitempty" yaml:"env,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Shell:      exec.DefaultShellPath,
		OutputRoot: "/",
		LogLevel:   logging.LogLevelWarn.String(),
		DirMode:    0o755,
		FileMode:   0o644,
	}
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.Shell == "" {
		return platformerrors.New(platformerrors.CodeInvalidConfig, "shell must not be empty")
	}
	if c.OutputRoot == "" {
		return platformerrors.New(platformerrors.CodeInvalidConfig, "output_root must not be empty")
	}
	if _, err := logging.ParseLogLevel(c.LogLevel); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "log_level")
	}
	if c.DirMode > 0o7777 || c.FileMode > 0o7777 {
		return platformerrors.Newf(platformerrors.CodeInvalidConfig,
			"modes must be within 0o7777 (dir_mode %o, file_mode %o)", c.DirMode, c.FileMode)
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "timeout")
		}
		if d <= 0 {
			return platformerrors.Newf(platformerrors.CodeInvalidConfig, "timeout must be positive, got %s", c.Timeout)
		}
	}
	return nil
}

// LogConfig returns the logging configuration for out.
func (c *Config) LogConfig(out io.Writer) logging.LogConfig {
	level, err := logging.ParseLogLevel(c.LogLevel)
	if err != nil {
		level = logging.LogLevelWarn
	}
	return logging.LogConfig{Level: level, Output: out, JSON: c.LogJSON}
}

// ExecutorOptions returns the options for the process executor behind
// delegated commands. Colors are always disabled since output is parsed.
func (c *Config) ExecutorOptions() []exec.Option {
	opts := []exec.Option{exec.WithInheritEnv(), exec.WithDisableColors()}
	if len(c.Env) > 0 {
		opts = append(opts, exec.WithEnv(c.Env))
	}
	if c.Timeout != "" {
		opts = append(opts, exec.WithTimeout(c.Timeout))
	}
	return opts
}

// ShellOptions returns the exec options that apply the configured
// interpreter, output root and executor settings.
func (c *Config) ShellOptions(logger *logging.Logger) []exec.ShellOption {
	return []exec.ShellOption{
		exec.WithShellPath(c.Shell),
		exec.WithOutputFS(osfs.New(c.OutputRoot)),
		exec.WithLogger(logger),
		exec.WithExecutor(exec.New(c.ExecutorOptions()...)),
	}
}

// Read decodes a Config from r. Keys missing from r keep their defaults.
func Read(r io.Reader) (*Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadYAML decodes a YAML Config from r. Keys missing from r keep their
// defaults.
func ReadYAML(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes cfg to w.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to encode config")
	}
	return nil
}

// WriteYAML encodes cfg to w as YAML.
func WriteYAML(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(cfg); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to encode config")
	}
	if err := enc.Close(); err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInternal, "failed to encode config")
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ReadFromFile reads a Config from the file at path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, platformerrors.FromOS(err, "open config", path)
	}
	defer f.Close()

	read := Read
	if isYAML(path) {
		read = ReadYAML
	}

	cfg, err := read(f)
	if err != nil {
		return nil, platformerrors.WithContext(err, "path", path)
	}
	return cfg, nil
}

// WriteToFile writes cfg to path, creating its directory.
func WriteToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return platformerrors.FromOS(err, "create config directory", filepath.Dir(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return platformerrors.FromOS(err, "create config", path)
	}
	defer f.Close()

	if isYAML(path) {
		return WriteYAML(f, cfg)
	}
	return Write(f, cfg)
}

// Load reads the config at path. An empty path or a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	cfg, err := ReadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}
