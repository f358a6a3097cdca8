package fsobj

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformerrors "github.com/jmgilman/sysfs/errors"
	"github.com/jmgilman/sysfs/exec"
	"github.com/jmgilman/sysfs/internal/logging"
)

// mockRunner records command text and returns a canned result.
type mockRunner struct {
	result *exec.RunResult
	err    error

	commands []string
}

func (m *mockRunner) Run(_ context.Context, command string) (*exec.RunResult, error) {
	m.commands = append(m.commands, command)
	if m.result == nil && m.err == nil {
		return &exec.RunResult{Command: command}, nil
	}
	return m.result, m.err
}

// tempDir returns a fresh temporary directory with symlinks resolved.
func tempDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestObject_CreateFile(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "a", "b", "file.txt")

	obj := NewTyped(path, TypeRegularFile)
	require.NoError(t, obj.Create(0o644))

	assert.True(t, obj.Exists())
	assert.Equal(t, TypeRegularFile, obj.Type())
	assert.Equal(t, "REGULAR_FILE", obj.TypeString())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	// Creating again is a no-op.
	require.NoError(t, obj.Create(0o644))
	assert.Equal(t, path, obj.FullPath())
}

func TestObject_CreateDirectory(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "x", "y")

	obj := NewTyped(path, TypeDirectory)
	require.NoError(t, obj.Create(0o755))

	assert.True(t, obj.Exists())
	assert.Equal(t, TypeDirectory, obj.Type())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestObject_CreateRenamesOnTypeConflict(t *testing.T) {
	dir := tempDir(t)
	taken := filepath.Join(dir, "x.txt")
	require.NoError(t, os.Mkdir(taken, 0o755))

	obj := NewTyped(taken, TypeRegularFile)
	require.NoError(t, obj.Create(0o644))

	assert.Equal(t, filepath.Join(dir, "x#.txt"), obj.FullPath())
	assert.True(t, obj.Exists())

	info, err := os.Stat(filepath.Join(dir, "x#.txt"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	info, err = os.Stat(taken)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestObject_CreateRejectsUndeclaredType(t *testing.T) {
	dir := tempDir(t)

	tests := []struct {
		name string
		obj  *Object
	}{
		{name: "unknown", obj: New(filepath.Join(dir, "thing"))},
		{name: "symlink", obj: NewTyped(filepath.Join(dir, "link"), TypeSymlink)},
		{name: "empty path", obj: NewTyped("", TypeRegularFile)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obj.Create(0o644)
			require.Error(t, err)
			assert.Equal(t, platformerrors.CodeInvalidInput, platformerrors.GetCode(err))
			assert.False(t, tt.obj.Exists())
		})
	}
}

func TestObject_ExistsHonoursDeclaredType(t *testing.T) {
	dir := tempDir(t)
	file := filepath.Join(dir, "f")
	writeFile(t, file, "data")

	assert.True(t, New(file).Exists())
	assert.True(t, NewTyped(file, TypeRegularFile).Exists())
	assert.False(t, NewTyped(file, TypeDirectory).Exists())
	assert.True(t, NewTyped(dir, TypeDirectory).Exists())
	assert.False(t, New(filepath.Join(dir, "missing")).Exists())
	assert.False(t, New("").Exists())
}

func TestObject_MetadataSentinels(t *testing.T) {
	obj := New(filepath.Join(tempDir(t), "missing"))

	assert.Equal(t, TypeUnknown, obj.Type())
	assert.Equal(t, "UNKNOWN", obj.TypeString())
	assert.Equal(t, int64(-1), obj.Inode())
	assert.Equal(t, uint32(0), obj.Mode())
	assert.Equal(t, int64(-1), obj.LinkCount())
	assert.Equal(t, int64(-1), obj.UID())
	assert.Equal(t, int64(-1), obj.GID())
	assert.Empty(t, obj.Owner())
	assert.Empty(t, obj.Group())
	assert.Equal(t, int64(-1), obj.BlockSize())
	assert.Equal(t, int64(-1), obj.Size())
	assert.Equal(t, int64(-1), obj.BlockCount())
	assert.True(t, obj.CreationTime().IsZero())
	assert.True(t, obj.LastAccessTime().IsZero())
	assert.True(t, obj.LastUpdateTime().IsZero())
	assert.False(t, obj.IsSymbolicLink())
}

func TestObject_Metadata(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "meta.txt")
	writeFile(t, path, "hello")

	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	obj := New(path)
	assert.Equal(t, int64(5), obj.Size())
	assert.Equal(t, int64(1), obj.LinkCount())
	assert.Positive(t, obj.Inode())
	assert.Positive(t, obj.BlockSize())
	assert.Equal(t, int64(os.Getuid()), obj.UID())
	assert.Equal(t, int64(os.Getgid()), obj.GID())
	assert.True(t, mtime.Equal(obj.LastUpdateTime()))
	assert.False(t, obj.CreationTime().IsZero())

	if u, err := user.LookupId(strconv.Itoa(os.Getuid())); err == nil {
		assert.Equal(t, u.Username, obj.Owner())
	}
}

func TestObject_ChangeMode(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "mode.txt")
	writeFile(t, path, "")

	obj := New(path)
	require.NoError(t, obj.ChangeMode(0o640))
	assert.Equal(t, uint32(0o640), obj.Mode())
	assert.Equal(t, TypeRegularFile, obj.Type())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	err = New(filepath.Join(dir, "missing")).ChangeMode(0o600)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}

func TestObject_Chown(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "owned")
	writeFile(t, path, "")

	// -1 keeps both ids, which any user may request.
	require.NoError(t, New(path).Chown(-1, -1))
	assert.Equal(t, int64(os.Getuid()), New(path).UID())
}

func TestObject_MakePath(t *testing.T) {
	dir := tempDir(t)

	t.Run("creates missing parents", func(t *testing.T) {
		obj := New(filepath.Join(dir, "p", "q", "r.txt"))
		require.NoError(t, obj.MakePath(0o755))

		info, err := os.Stat(filepath.Join(dir, "p", "q"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.False(t, obj.Exists())
	})

	t.Run("rejects a file component", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		writeFile(t, blocker, "")

		err := New(filepath.Join(blocker, "sub", "x")).MakePath(0o755)
		require.Error(t, err)
		assert.Equal(t, platformerrors.CodeConflict, platformerrors.GetCode(err))
	})

	t.Run("rejects a bare name", func(t *testing.T) {
		err := New("bare").MakePath(0o755)
		assert.Equal(t, platformerrors.CodeInvalidInput, platformerrors.GetCode(err))
	})

	t.Run("root directory", func(t *testing.T) {
		assert.NoError(t, New("/definitely-not-created").MakePath(0o755))
	})
}

func TestObject_AbsolutePath(t *testing.T) {
	dir := tempDir(t)
	target := filepath.Join(dir, "real.txt")
	writeFile(t, target, "")
	link := filepath.Join(dir, "alias.txt")
	require.NoError(t, os.Symlink(target, link))

	abs, err := New(link).AbsolutePath()
	require.NoError(t, err)
	assert.Equal(t, target, abs)

	abs, err = New(filepath.Join(dir, "new", "later.txt")).AbsolutePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "new", "later.txt"), abs)

	info, err := os.Stat(filepath.Join(dir, "new"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestObject_RemoveIsMemoized(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "gone.txt")
	writeFile(t, path, "x")

	obj := NewTyped(path, TypeRegularFile)
	require.True(t, obj.Exists())
	require.NoError(t, obj.Remove())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.False(t, obj.Exists())

	err = obj.Remove()
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))

	// Absence is not re-checked until the object is re-pointed.
	writeFile(t, path, "back")
	assert.False(t, obj.Exists())
	obj.SetPath(path)
	assert.True(t, obj.Exists())
}

func TestObject_RemoveDirectory(t *testing.T) {
	dir := tempDir(t)
	tree := filepath.Join(dir, "tree")
	writeFile(t, filepath.Join(tree, "a", "b.txt"), "b")

	require.NoError(t, NewTyped(tree, TypeDirectory).Remove())

	_, err := os.Stat(tree)
	assert.True(t, os.IsNotExist(err))
}

func TestObject_RemoveSymlinkKeepsTarget(t *testing.T) {
	dir := tempDir(t)
	target := filepath.Join(dir, "target")
	writeFile(t, filepath.Join(target, "keep.txt"), "k")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	require.NoError(t, New(link).Remove())

	_, err := os.Lstat(link)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(target, "keep.txt"))
	assert.NoError(t, err)
}

func TestObject_MoveFile(t *testing.T) {
	dir := tempDir(t)
	src := filepath.Join(dir, "src.txt")
	writeFile(t, src, "payload")
	dst := filepath.Join(dir, "out", "moved.txt")

	obj := New(src)
	require.NoError(t, obj.Move(dst))

	assert.False(t, obj.Exists())
	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestObject_MoveDirectoryOntoFile(t *testing.T) {
	dir := tempDir(t)
	src := filepath.Join(dir, "srcdir")
	require.NoError(t, os.Mkdir(src, 0o755))
	dst := filepath.Join(dir, "file")
	writeFile(t, dst, "")

	obj := New(src)
	err := obj.Move(dst)
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeConflict, platformerrors.GetCode(err))
	assert.True(t, obj.Exists())
}

func TestObject_MoveMissingSource(t *testing.T) {
	dir := tempDir(t)

	err := New(filepath.Join(dir, "nope")).Move(filepath.Join(dir, "dst"))
	assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
}

func TestObject_CopyDirectory(t *testing.T) {
	dir := tempDir(t)
	src := filepath.Join(dir, "srcdir")
	writeFile(t, filepath.Join(src, "a.txt"), "a")
	dst := filepath.Join(dir, "copy")

	obj := New(src)
	require.NoError(t, obj.Copy(dst))
	assert.True(t, obj.Exists())

	// The destination is created first, so the source lands inside it.
	data, err := os.ReadFile(filepath.Join(dst, "srcdir", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	_, err = os.Stat(filepath.Join(src, "a.txt"))
	assert.NoError(t, err)
}

func TestObject_CopyFileIntoDirectory(t *testing.T) {
	dir := tempDir(t)
	src := filepath.Join(dir, "one.txt")
	writeFile(t, src, "1")
	dst := filepath.Join(dir, "dest")
	require.NoError(t, os.Mkdir(dst, 0o755))

	require.NoError(t, New(src).Copy(dst))

	data, err := os.ReadFile(filepath.Join(dst, "one.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1", string(data))
}

func TestObject_CopyQuotesPaths(t *testing.T) {
	dir := tempDir(t)
	src := filepath.Join(dir, "with space $x.txt")
	writeFile(t, src, "q")
	dst := filepath.Join(dir, "b>c.txt")

	require.NoError(t, New(src).Copy(dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "q", string(data))
}

func TestObject_CreateSymLink(t *testing.T) {
	dir := tempDir(t)
	target := filepath.Join(dir, "target.txt")
	writeFile(t, target, "t")

	t.Run("absent destination", func(t *testing.T) {
		link := filepath.Join(dir, "links", "l.txt")
		require.NoError(t, New(target).CreateSymLink(link))

		dest, err := os.Readlink(link)
		require.NoError(t, err)
		assert.Equal(t, target, dest)
		assert.True(t, New(link).IsSymbolicLink())
	})

	t.Run("existing directory destination", func(t *testing.T) {
		into := filepath.Join(dir, "into")
		require.NoError(t, os.Mkdir(into, 0o755))

		require.NoError(t, New(target).CreateSymLink(into))

		dest, err := os.Readlink(filepath.Join(into, "target.txt"))
		require.NoError(t, err)
		assert.Equal(t, target, dest)
	})

	t.Run("existing file destination", func(t *testing.T) {
		other := filepath.Join(dir, "other.txt")
		writeFile(t, other, "")

		err := New(target).CreateSymLink(other)
		assert.Equal(t, platformerrors.CodeConflict, platformerrors.GetCode(err))
	})

	t.Run("missing source", func(t *testing.T) {
		err := New(filepath.Join(dir, "ghost")).CreateSymLink(filepath.Join(dir, "ghost-link"))
		assert.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
	})
}

func TestObject_RemoveSymLink(t *testing.T) {
	dir := tempDir(t)
	target := filepath.Join(dir, "target.txt")
	writeFile(t, target, "t")
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	obj := New(link)
	require.NoError(t, obj.RemoveSymLink())

	assert.Equal(t, target, obj.FullPath())
	assert.True(t, obj.Exists())
	_, err := os.Lstat(link)
	assert.True(t, os.IsNotExist(err))

	// A regular file is left alone.
	require.NoError(t, obj.RemoveSymLink())
	assert.Equal(t, target, obj.FullPath())
	_, err = os.Stat(target)
	assert.NoError(t, err)
}

func TestObject_SetOwnerUsesRunner(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "owned.txt")
	writeFile(t, path, "")

	runner := &mockRunner{}
	obj := New(path, WithRunner(runner))

	require.NoError(t, obj.SetOwner("alice"))
	require.NoError(t, obj.SetGroup("staff"))
	assert.Equal(t, []string{
		`chown "alice" "` + path + `"`,
		`chgrp "staff" "` + path + `"`,
	}, runner.commands)

	err := obj.SetOwner("")
	assert.Equal(t, platformerrors.CodeInvalidInput, platformerrors.GetCode(err))
	assert.Len(t, runner.commands, 2)
}

func TestObject_RunnerFailurePropagates(t *testing.T) {
	dir := tempDir(t)
	src := filepath.Join(dir, "src")
	writeFile(t, src, "")

	runner := &mockRunner{
		result: &exec.RunResult{ErrorMessage: "mv: denied"},
		err:    platformerrors.New(platformerrors.CodeExecutionFailed, "command failed"),
	}
	obj := New(src, WithRunner(runner))

	err := obj.Move(filepath.Join(dir, "dst"))
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeExecutionFailed, platformerrors.GetCode(err))
	assert.True(t, obj.Exists())
	assert.Equal(t, []string{`mv "` + src + `" "` + filepath.Join(dir, "dst") + `"`}, runner.commands)
}

func TestObject_DefaultRunnerDisablesColors(t *testing.T) {
	obj := New(tempDir(t))

	result, err := obj.run(logging.OpList, "echo $NO_COLOR $TERM")
	require.NoError(t, err)
	assert.Equal(t, []string{"1 dumb"}, result.Lines)
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/plain", want: `"/plain"`},
		{in: `a"b`, want: `"a\"b"`},
		{in: "$HOME", want: `"\$HOME"`},
		{in: "a`b`", want: "\"a\\`b\\`\""},
		{in: `back\slash`, want: `"back\\slash"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, quote(tt.in))
		})
	}
}
