// Package exec runs external commands for the filesystem layer.
//
// Two levels are provided. The lower level is Executor, a fluent interface
// over os/exec implemented by Command, which runs an argv, captures stdout,
// stderr and the combined stream, and reports failures as *ExecError. The
// upper level is Shell, which hands a command line to the system command
// interpreter, parses an optional trailing "> path" redirection, and keeps
// the captured output as lines.
//
// # Executor
//
//	cmd := exec.New(exec.WithInheritEnv())
//	result, err := cmd.WithDir("/tmp").Run("ls", "-a")
//	if err != nil {
//		var execErr *exec.ExecError
//		if errors.As(err, &execErr) {
//			fmt.Println(execErr.ExitCode, execErr.Stderr)
//		}
//	}
//	fmt.Println(result.Stdout)
//
// Options passed to New are global and apply to every run. The With* methods
// are local and are reset after each Run. A CommandWrapper prepends a fixed
// program name to every Run, which is how Shell invokes the interpreter:
//
//	sh := exec.NewWrapper(exec.New(), "/bin/sh")
//	sh.Run("-c", "echo hi")
//
// # Shell
//
//	sh := exec.NewShellCommand("ls /var/log > /tmp/logs.txt")
//	if !sh.Execute(false) {
//		log.Println(sh.ErrorMessage())
//	}
//	lines := sh.OutputLines()
//
// The redirection is split on the last '>' unless a '"' occurs at or after
// it. Redirected output is written by the Shell itself through a go-billy
// filesystem, creating the target's parent directory first; WithOutputFS
// swaps in another filesystem such as memfs for tests. A target containing
// "/dev/null" only reports the exit status.
//
// On failure the Shell keeps only the first chunk (4095 bytes) of the
// combined output as its error message and retains no output lines.
//
// # Runner
//
// Runner is the narrow contract the filesystem layer depends on: command
// text in, lines and status out. ShellRunner implements it on top of Shell
// and converts failures into platform errors carrying the captured snapshot.
package exec
