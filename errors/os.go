package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"

	"golang.org/x/sys/unix"
)

// FromOS classifies an error returned by a syscall or the os package and
// wraps it with the failing operation and path. The original error stays in
// the chain, so errors.Is(err, fs.ErrNotExist) keeps working.
//
// Returns nil if err is nil.
//
//nolint:gocyclo,cyclop // Each case is a simple mapping
func FromOS(err error, op, path string) error {
	if err == nil {
		return nil
	}

	message := fmt.Sprintf("%s %s", op, path)
	// ENOTEMPTY also matches fs.ErrExist, so type mismatches are checked first.
	switch {
	case stderrors.Is(err, unix.ENOTDIR), stderrors.Is(err, unix.EISDIR), stderrors.Is(err, unix.ENOTEMPTY):
		return Wrap(err, CodeConflict, message)
	case stderrors.Is(err, fs.ErrNotExist):
		return Wrap(err, CodeNotFound, message)
	case stderrors.Is(err, fs.ErrExist):
		return Wrap(err, CodeAlreadyExists, message)
	case stderrors.Is(err, fs.ErrPermission), stderrors.Is(err, unix.EROFS):
		return Wrap(err, CodeForbidden, message)
	case stderrors.Is(err, unix.ENAMETOOLONG), stderrors.Is(err, unix.EINVAL):
		return Wrap(err, CodeInvalidInput, message)
	case stderrors.Is(err, context.DeadlineExceeded):
		return Wrap(err, CodeTimeout, message)
	default:
		return Wrap(err, CodeInternal, message)
	}
}
