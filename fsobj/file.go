package fsobj

import (
	"bufio"
	"io"
	"os"
	"strings"

	platformerrors "github.com/jmgilman/sysfs/errors"
	"github.com/jmgilman/sysfs/internal/logging"
)

// File is a regular-file Object that can hold one open stream.
type File struct {
	*Object

	f      *os.File
	reader *bufio.Reader
}

var (
	_ io.Reader = (*File)(nil)
	_ io.Writer = (*File)(nil)
	_ io.Closer = (*File)(nil)
)

// NewFile returns a File declared as a regular file.
func NewFile(path string, opts ...Option) *File {
	f := &File{Object: NewTyped(path, TypeRegularFile, opts...)}
	f.onRepoint = func() { _ = f.Close() }
	return f
}

// OpenRead opens the file for reading. text has no effect on POSIX.
func (f *File) OpenRead(text bool) error {
	return f.open(os.O_RDONLY)
}

// OpenWrite opens the file for writing, creating or truncating it.
func (f *File) OpenWrite(text bool) error {
	return f.open(os.O_WRONLY | os.O_CREATE | os.O_TRUNC)
}

// OpenAppend opens the file for appending, creating it if missing.
func (f *File) OpenAppend(text bool) error {
	return f.open(os.O_WRONLY | os.O_CREATE | os.O_APPEND)
}

// OpenReadWrite opens an existing file for reading and writing.
func (f *File) OpenReadWrite(text bool) error {
	return f.open(os.O_RDWR)
}

// Open re-points the file at path and opens it with the os.O_* flag.
func (f *File) Open(path string, flag int) error {
	f.SetPath(path)
	return f.open(flag)
}

func (f *File) open(flag int) error {
	if err := f.Close(); err != nil {
		return err
	}

	if f.IsEmpty() {
		return f.fail(logging.OpOpen, platformerrors.New(platformerrors.CodeInvalidInput, "path is empty"))
	}

	abs, err := f.AbsolutePath()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(abs, flag, 0o666)
	if err != nil {
		return f.fail(logging.OpOpen, platformerrors.FromOS(err, "open", f.FullPath()))
	}

	f.f = file
	f.reader = bufio.NewReader(file)
	if flag&os.O_CREATE != 0 {
		f.exists = existencePresent
	}
	return nil
}

// IsOpen reports whether a stream is held.
func (f *File) IsOpen() bool {
	return f.f != nil
}

// Close releases the stream. Closing a closed File is a no-op.
func (f *File) Close() error {
	if f.f == nil {
		return nil
	}

	err := f.f.Close()
	f.f = nil
	f.reader = nil
	if err != nil {
		return f.fail(logging.OpOpen, platformerrors.FromOS(err, "close", f.FullPath()))
	}
	return nil
}

// Read reads from the open stream.
func (f *File) Read(p []byte) (int, error) {
	if f.f == nil {
		return 0, platformerrors.Newf(platformerrors.CodeInvalidInput, "%s is not open", f.FullPath())
	}
	return f.reader.Read(p)
}

// Write writes to the open stream.
func (f *File) Write(p []byte) (int, error) {
	if f.f == nil {
		return 0, platformerrors.Newf(platformerrors.CodeInvalidInput, "%s is not open", f.FullPath())
	}
	return f.f.Write(p)
}

// ReadLine returns the next line without its trailing newline. It returns
// io.EOF once the stream is exhausted.
func (f *File) ReadLine() (string, error) {
	if f.f == nil {
		return "", platformerrors.Newf(platformerrors.CodeInvalidInput, "%s is not open", f.FullPath())
	}

	line, err := f.reader.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// Move closes any open stream and moves the file. A missing file keeps
// its stream.
func (f *File) Move(dst string) error {
	if !f.Exists() {
		return f.Object.Move(dst)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return f.Object.Move(dst)
}

// Remove closes any open stream and removes the file. A missing file
// keeps its stream.
func (f *File) Remove() error {
	if !f.Exists() {
		return f.Object.Remove()
	}
	if err := f.Close(); err != nil {
		return err
	}
	return f.Object.Remove()
}
