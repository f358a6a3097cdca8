package exec

import (
	"context"
	osexec "os/exec"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/sysfs/internal/logging"
)

// DefaultShellPath is the command interpreter used when none is configured.
const DefaultShellPath = "/bin/sh"

// ChunkSize is the read granularity of captured output. A failed command
// keeps only its first chunk as the error message, and redirected lines of
// at least this length are written without a terminating newline.
const ChunkSize = 4095

// Shell runs command text through the system command interpreter and keeps
// the outcome of the last execution.
//
// A Shell is not safe for concurrent use.
type Shell struct {
	shellPath string
	executor  Executor
	outputFS  billy.Filesystem
	logger    *logging.Logger

	available bool

	command      string
	outPath      string
	errorMessage string
	outputLines  []string
	status       bool
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithShellPath selects the command interpreter, for example "/bin/bash".
func WithShellPath(shellPath string) ShellOption {
	return func(s *Shell) {
		s.shellPath = shellPath
	}
}

// WithOutputFS sets the filesystem that receives redirected output.
func WithOutputFS(fs billy.Filesystem) ShellOption {
	return func(s *Shell) {
		s.outputFS = fs
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *logging.Logger) ShellOption {
	return func(s *Shell) {
		s.logger = logger
	}
}

// WithExecutor sets the executor used to launch the interpreter.
func WithExecutor(executor Executor) ShellOption {
	return func(s *Shell) {
		s.executor = executor
	}
}

// NewShell creates a Shell with no command. The interpreter's availability
// is checked once here.
func NewShell(opts ...ShellOption) *Shell {
	s := &Shell{
		shellPath: DefaultShellPath,
		logger:    logging.NewNopLogger(),
		status:    true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.executor == nil {
		s.executor = New(WithInheritEnv())
	}
	if s.outputFS == nil {
		s.outputFS = osfs.New("/")
	}

	_, err := osexec.LookPath(s.shellPath)
	s.available = err == nil

	return s
}

// NewShellCommand creates a Shell and sets its command text.
func NewShellCommand(text string, opts ...ShellOption) *Shell {
	s := NewShell(opts...)
	s.UpdateCommand(text)
	return s
}

// UpdateCommand replaces the command text, re-parsing any trailing
// "> path" redirection, and clears the captured lines.
func (s *Shell) UpdateCommand(text string) {
	s.command, s.outPath = parseRedirect(text)
	s.outputLines = nil
}

// SetOutPath sets the redirection target directly.
func (s *Shell) SetOutPath(p string) {
	s.outPath = p
}

// Command returns the command text without its redirection.
func (s *Shell) Command() string {
	return s.command
}

// OutPath returns the redirection target, or "".
func (s *Shell) OutPath() string {
	return s.outPath
}

// ErrorMessage returns the output snapshot of the last failed execution.
func (s *Shell) ErrorMessage() string {
	return s.errorMessage
}

// OutputLines returns the lines captured by the last successful execution.
func (s *Shell) OutputLines() []string {
	return s.outputLines
}

// LastStatus reports whether the last execution succeeded. It is true
// before the first execution.
func (s *Shell) LastStatus() bool {
	return s.status
}

// IsShellAvailable reports whether the command interpreter was found.
func (s *Shell) IsShellAvailable() bool {
	return s.available
}

// Execute runs the command and reports success. With toDevNull set, output
// is discarded and only the exit status counts.
func (s *Shell) Execute(toDevNull bool) bool {
	return s.ExecuteContext(context.Background(), toDevNull)
}

// ExecuteContext is Execute bound to ctx. Cancelling ctx kills the child.
func (s *Shell) ExecuteContext(ctx context.Context, toDevNull bool) bool {
	if toDevNull {
		s.outPath = DevNull
	}

	s.status = false
	s.errorMessage = ""

	if !s.available {
		s.logger.Error("shell is not available", "shell", s.shellPath)
		return false
	}

	s.outputLines = nil

	if s.command == "" {
		return false
	}

	log := s.logger.WithOperation(logging.OpExec).With("command", s.command)

	if isDevNull(s.outPath) {
		result, err := s.run(ctx, s.command+" > "+DevNull)
		s.status = err == nil && result.Success()
		if !s.status {
			log.Debug("command failed", "exit_code", exitCode(result))
		}
		return s.status
	}

	result, err := s.run(ctx, s.command)
	if err != nil || !result.Success() {
		s.errorMessage = firstChunk(result, err)
		log.Debug("command failed", "exit_code", exitCode(result), "error", s.errorMessage)
		return false
	}

	s.outputLines = result.Lines()

	if s.outPath != "" {
		if err := s.writeOutput(); err != nil {
			log.Error("failed to write command output", "out_path", s.outPath, "error", err.Error())
		}
	}

	s.status = true
	return true
}

func (s *Shell) run(ctx context.Context, command string) (*Result, error) {
	sh := NewWrapper(s.executor.Clone(), s.shellPath)
	return sh.WithContext(ctx).Run("-c", command)
}

// writeOutput writes the captured lines to the redirection target, creating
// its parent directory first.
func (s *Shell) writeOutput() error {
	target := s.outPath
	if !path.IsAbs(filepath.ToSlash(target)) {
		abs, err := filepath.Abs(target)
		if err != nil {
			return err
		}
		target = abs
	}
	target = filepath.ToSlash(target)

	if err := s.outputFS.MkdirAll(path.Dir(target), 0o777); err != nil {
		return err
	}

	f, err := s.outputFS.Create(target)
	if err != nil {
		return err
	}

	for _, line := range s.outputLines {
		if _, err := f.Write([]byte(line)); err != nil {
			_ = f.Close()
			return err
		}
		if len(line) < ChunkSize {
			if _, err := f.Write([]byte{'\n'}); err != nil {
				_ = f.Close()
				return err
			}
		}
	}

	return f.Close()
}

// firstChunk returns the error snapshot of a failed run: the first chunk
// of its combined output, or the error itself when the process never
// produced an exit status.
func firstChunk(result *Result, err error) string {
	var out string
	if result != nil {
		out = result.Combined
	}
	if out == "" && err != nil && exitCode(result) < 0 {
		out = err.Error()
	}
	if len(out) > ChunkSize {
		out = out[:ChunkSize]
	}
	return out
}

func exitCode(result *Result) int {
	if result == nil {
		return -1
	}
	return result.ExitCode
}
