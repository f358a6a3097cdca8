package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformerrors "github.com/jmgilman/sysfs/errors"
	"github.com/jmgilman/sysfs/exec"
	"github.com/jmgilman/sysfs/internal/logging"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "/bin/sh", cfg.Shell)
	assert.Equal(t, "/", cfg.OutputRoot)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, uint32(0o755), cfg.DirMode)
	assert.Equal(t, uint32(0o644), cfg.FileMode)
	assert.NoError(t, cfg.Validate())
}

func TestReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		Shell:      "/usr/bin/bash",
		OutputRoot: "/srv/out",
		LogLevel:   "debug",
		LogJSON:    true,
		DirMode:    0o700,
		FileMode:   0o600,
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestRead_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Read(strings.NewReader("log_level = \"error\"\ndir_mode = 0o750\n"))
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, uint32(0o750), cfg.DirMode)
	assert.Equal(t, "/bin/sh", cfg.Shell)
	assert.Equal(t, uint32(0o644), cfg.FileMode)
}

func TestRead_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "syntax", input: "shell = "},
		{name: "log level", input: `log_level = "loud"`},
		{name: "empty shell", input: `shell = ""`},
		{name: "mode range", input: "file_mode = 0o17777"},
		{name: "timeout syntax", input: `timeout = "soon"`},
		{name: "timeout sign", input: `timeout = "-1s"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, platformerrors.CodeInvalidConfig, platformerrors.GetCode(err))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty path", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(dir, "absent.toml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("written file", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "sysfs.toml")
		want := Default()
		want.Shell = "/bin/bash"
		require.NoError(t, WriteToFile(path, want))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, want, cfg)
	})

	t.Run("bad file", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("log_level = 3"), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Equal(t, platformerrors.CodeInvalidConfig, platformerrors.GetCode(err))

		var platformErr platformerrors.PlatformError
		require.ErrorAs(t, err, &platformErr)
		assert.Equal(t, path, platformErr.Context()["path"])
	})
}

func TestYAML(t *testing.T) {
	cfg, err := ReadYAML(strings.NewReader("shell: /bin/dash\ndir_mode: 0o750\n"))
	require.NoError(t, err)
	assert.Equal(t, "/bin/dash", cfg.Shell)
	assert.Equal(t, uint32(0o750), cfg.DirMode)
	assert.Equal(t, "warn", cfg.LogLevel)

	empty, err := ReadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), empty)

	_, err = ReadYAML(strings.NewReader("log_level: loud\n"))
	assert.Equal(t, platformerrors.CodeInvalidConfig, platformerrors.GetCode(err))

	path := filepath.Join(t.TempDir(), "sysfs.yaml")
	want := Default()
	want.LogJSON = true
	require.NoError(t, WriteToFile(path, want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_json: true")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLogConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "info"

	lc := cfg.LogConfig(&buf)
	assert.Equal(t, logging.LogLevelInfo, lc.Level)
	assert.Same(t, &buf, lc.Output)

	logging.NewLogger(lc).Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestShellOptions(t *testing.T) {
	assert.Len(t, Default().ShellOptions(logging.NewNopLogger()), 4)
}

func TestExecutorOptions(t *testing.T) {
	assert.Len(t, Default().ExecutorOptions(), 2)

	cfg, err := Read(strings.NewReader("timeout = \"100ms\"\n\n[env]\nGREETING = \"hi\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "100ms", cfg.Timeout)
	assert.Equal(t, map[string]string{"GREETING": "hi"}, cfg.Env)

	runner := exec.NewShellRunner(cfg.ShellOptions(logging.NewNopLogger())...)

	result, err := runner.Run(context.Background(), "echo $GREETING $NO_COLOR $TERM")
	require.NoError(t, err)
	assert.Equal(t, []string{"hi 1 dumb"}, result.Lines)

	start := time.Now()
	_, err = runner.Run(context.Background(), "exec sleep 5")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}
