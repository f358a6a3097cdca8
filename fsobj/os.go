package fsobj

import (
	"os"
	"os/user"

	"golang.org/x/sys/unix"

	platformerrors "github.com/jmgilman/sysfs/errors"
)

// Copy copies src to dst. See Object.Copy.
func Copy(src, dst string, opts ...Option) error {
	return New(src, opts...).Copy(dst)
}

// Move moves src to dst. See Object.Move.
func Move(src, dst string, opts ...Option) error {
	return New(src, opts...).Move(dst)
}

// CreateSymLink creates link pointing at target. See Object.CreateSymLink.
func CreateSymLink(target, link string, opts ...Option) error {
	return New(target, opts...).CreateSymLink(link)
}

// Remove removes path. See Object.Remove.
func Remove(path string, opts ...Option) error {
	return New(path, opts...).Remove()
}

// RemoveSymLink removes the symlink at path and returns its resolved
// target. A path that is not a symlink is returned unchanged.
func RemoveSymLink(path string, opts ...Option) (string, error) {
	o := New(path, opts...)
	if err := o.RemoveSymLink(); err != nil {
		return "", err
	}
	return o.FullPath(), nil
}

// SetCurrentWorkingDir changes the process working directory.
func SetCurrentWorkingDir(path string) error {
	if path == "" {
		return platformerrors.New(platformerrors.CodeInvalidInput, "path is empty")
	}
	if err := unix.Chdir(path); err != nil {
		return platformerrors.FromOS(err, "chdir", path)
	}
	return nil
}

// CurrentWorkingDir returns the process working directory.
func CurrentWorkingDir() (string, error) {
	wd, err := unix.Getwd()
	if err != nil {
		return "", platformerrors.FromOS(err, "getwd", ".")
	}
	return wd, nil
}

// User returns the current user name from $USER, falling back to the
// account database.
func User() (string, error) {
	if name := os.Getenv("USER"); name != "" {
		return name, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", platformerrors.Wrap(err, platformerrors.CodeNotFound, "current user")
	}
	return u.Username, nil
}

// HomeDir returns the current user's home directory from $HOME, falling
// back to the account database.
func HomeDir() (string, error) {
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", platformerrors.Wrap(err, platformerrors.CodeNotFound, "home directory")
	}
	return u.HomeDir, nil
}
