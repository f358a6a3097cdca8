// Package errors provides structured error handling for filesystem and
// command-runner operations.
//
// Every operation in this module that can fail returns an error carrying an
// ErrorCode. Codes group the failure taxonomy of the filesystem layer:
//
//   - Capability errors: CodeUnavailable (no command interpreter)
//   - Resource errors: CodeNotFound, CodeAlreadyExists, CodeConflict (type mismatch)
//   - Permission errors: CodeForbidden
//   - Validation errors: CodeInvalidInput
//   - Execution errors: CodeExecutionFailed (non-zero exit of a delegated command)
//   - System errors: CodeInternal, CodeUnknown
//
// The package is fully compatible with the standard library (errors.Is,
// errors.As, errors.Unwrap).
//
// # Creating Errors
//
//	err := errors.New(errors.CodeInvalidInput, "path is empty")
//	err := errors.Newf(errors.CodeConflict, "%s: source is a directory, destination is a file", dst)
//
// # Wrapping OS Errors
//
// FromOS classifies errors returned by syscalls and the os package:
//
//	if err := unix.Mkdir(p, mode); err != nil {
//	    return errors.FromOS(err, "mkdir", p)
//	}
//
// # Context
//
// Attach debugging metadata such as the captured output of a failed command:
//
//	err = errors.WithContext(err, "output", shell.ErrorMessage())
//
// # Inspecting Errors
//
//	if errors.GetCode(err) == errors.CodeNotFound {
//	    // Target is absent
//	}
package errors
