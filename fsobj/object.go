package fsobj

import (
	"context"
	"errors"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	platformerrors "github.com/jmgilman/sysfs/errors"
	"github.com/jmgilman/sysfs/exec"
	"github.com/jmgilman/sysfs/fspath"
	"github.com/jmgilman/sysfs/internal/logging"
)

type existence uint8

const (
	existenceUnknown existence = iota
	existencePresent
	existenceAbsent
)

// Object is a handle on a filesystem path with an expected type.
type Object struct {
	*fspath.Path

	typ    Type
	runner exec.Runner
	logger *logging.Logger
	ctx    context.Context

	// Interior caches, reset by SetPath.
	realPath string
	exists   existence

	// onRepoint runs before every path change, including the ones made by
	// Create and RemoveSymLink. Dir and File use it to drop their state.
	onRepoint func()
}

// Option configures an Object.
type Option func(*Object)

// WithRunner sets the runner used for shell-delegated operations.
func WithRunner(runner exec.Runner) Option {
	return func(o *Object) {
		o.runner = runner
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *logging.Logger) Option {
	return func(o *Object) {
		o.logger = logger
	}
}

// WithContext sets the context passed to the runner.
func WithContext(ctx context.Context) Option {
	return func(o *Object) {
		o.ctx = ctx
	}
}

// New returns an Object with no declared type.
func New(path string, opts ...Option) *Object {
	return NewTyped(path, TypeUnknown, opts...)
}

// NewTyped returns an Object declared as typ. Only TypeRegularFile and
// TypeDirectory can be created, and they restrict what Exists accepts.
func NewTyped(path string, typ Type, opts ...Option) *Object {
	o := &Object{
		Path:   fspath.New(path),
		typ:    typ,
		logger: logging.NewNopLogger(),
		ctx:    context.Background(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.runner == nil {
		o.runner = exec.NewShellRunner(
			exec.WithLogger(o.logger),
			exec.WithExecutor(exec.New(exec.WithInheritEnv(), exec.WithDisableColors())),
		)
	}

	return o
}

// derive returns an Object for path sharing o's runner, logger and context.
func (o *Object) derive(path string, typ Type) *Object {
	return &Object{
		Path:   fspath.New(path),
		typ:    typ,
		runner: o.runner,
		logger: o.logger,
		ctx:    o.ctx,
	}
}

// DeclaredType returns the type the object was declared with.
func (o *Object) DeclaredType() Type {
	return o.typ
}

// SetPath re-points the object and drops every cached lookup. A Dir drops
// its listing and a File closes its stream.
func (o *Object) SetPath(path string) {
	if o.onRepoint != nil {
		o.onRepoint()
	}
	o.Path.SetPath(path)
	o.realPath = ""
	o.exists = existenceUnknown
}

func (o *Object) stat(follow bool) (*statInfo, error) {
	if o.IsEmpty() {
		return nil, platformerrors.New(platformerrors.CodeInvalidInput, "path is empty")
	}

	st, err := statPath(o.FullPath(), follow)
	if err != nil {
		if !errors.Is(err, unix.ENOENT) {
			o.logger.Error("stat failed", "path", o.FullPath(), "error", err.Error())
		}
		return nil, platformerrors.FromOS(err, "stat", o.FullPath())
	}
	return st, nil
}

// Type returns the on-disk type, following symlinks.
func (o *Object) Type() Type {
	st, err := o.stat(true)
	if err != nil {
		return TypeUnknown
	}
	return st.typ()
}

// TypeString returns the name of the on-disk type.
func (o *Object) TypeString() string {
	return o.Type().String()
}

// Inode returns the inode number, or -1.
func (o *Object) Inode() int64 {
	st, err := o.stat(true)
	if err != nil {
		return -1
	}
	return int64(st.ino)
}

// Mode returns the permission and special bits (type bits removed), or 0.
func (o *Object) Mode() uint32 {
	st, err := o.stat(true)
	if err != nil {
		return 0
	}
	return st.mode &^ typeMask
}

// LinkCount returns the number of hard links, or -1.
func (o *Object) LinkCount() int64 {
	st, err := o.stat(true)
	if err != nil {
		return -1
	}
	return int64(st.nlink)
}

// UID returns the owning user id, or -1.
func (o *Object) UID() int64 {
	st, err := o.stat(true)
	if err != nil {
		return -1
	}
	return int64(st.uid)
}

// GID returns the owning group id, or -1.
func (o *Object) GID() int64 {
	st, err := o.stat(true)
	if err != nil {
		return -1
	}
	return int64(st.gid)
}

// Owner returns the owning user name, or "".
func (o *Object) Owner() string {
	uid := o.UID()
	if uid < 0 {
		return ""
	}

	u, err := user.LookupId(strconv.FormatInt(uid, 10))
	if err != nil {
		o.logger.Error("owner lookup failed", "path", o.FullPath(), "error", err.Error())
		return ""
	}
	return u.Username
}

// Group returns the owning group name, or "".
func (o *Object) Group() string {
	gid := o.GID()
	if gid < 0 {
		return ""
	}

	g, err := user.LookupGroupId(strconv.FormatInt(gid, 10))
	if err != nil {
		o.logger.Error("group lookup failed", "path", o.FullPath(), "error", err.Error())
		return ""
	}
	return g.Name
}

// BlockSize returns the preferred I/O block size, or -1.
func (o *Object) BlockSize() int64 {
	st, err := o.stat(true)
	if err != nil {
		return -1
	}
	return st.blksize
}

// Size returns the size in bytes, or -1.
func (o *Object) Size() int64 {
	st, err := o.stat(true)
	if err != nil {
		return -1
	}
	return st.size
}

// BlockCount returns the number of 512-byte blocks allocated, or -1.
func (o *Object) BlockCount() int64 {
	st, err := o.stat(true)
	if err != nil {
		return -1
	}
	return st.blocks
}

// CreationTime returns the status change time (ctime), or the zero time.
func (o *Object) CreationTime() time.Time {
	st, err := o.stat(true)
	if err != nil {
		return time.Time{}
	}
	return st.ctime
}

// LastAccessTime returns the access time, or the zero time.
func (o *Object) LastAccessTime() time.Time {
	st, err := o.stat(true)
	if err != nil {
		return time.Time{}
	}
	return st.atime
}

// LastUpdateTime returns the modification time, or the zero time.
func (o *Object) LastUpdateTime() time.Time {
	st, err := o.stat(true)
	if err != nil {
		return time.Time{}
	}
	return st.mtime
}

// IsSymbolicLink reports whether the path itself is a symlink.
func (o *Object) IsSymbolicLink() bool {
	st, err := o.stat(false)
	return err == nil && st.typ() == TypeSymlink
}

// Exists reports whether the path can be stat'ed and, for declared files
// and directories, has the declared kind. A positive answer is cached, as is
// the absence recorded by a successful Remove or Move.
func (o *Object) Exists() bool {
	switch o.exists {
	case existencePresent:
		return true
	case existenceAbsent:
		return false
	}

	if o.IsEmpty() {
		return false
	}

	st, err := o.stat(true)
	if err != nil || !st.matches(o.typ) {
		return false
	}

	o.exists = existencePresent
	return true
}

// Create creates the object with mode after creating its parents. An
// existing object of the declared kind counts as success. If something of a
// different kind already occupies the path, the object is re-pointed at
// "<dir><base>#<ext>" and creation is retried there.
func (o *Object) Create(mode uint32) error {
	if o.IsEmpty() {
		return o.fail(logging.OpCreate, platformerrors.New(platformerrors.CodeInvalidInput, "path is empty"))
	}

	_ = o.MakePath(DefaultMode)

	if o.typ != TypeRegularFile && o.typ != TypeDirectory {
		err := platformerrors.Newf(platformerrors.CodeInvalidInput,
			"%s: declared type %s cannot be created", o.FullPath(), o.typ)
		o.logger.Warn("no object type to create", "path", o.FullPath())
		return err
	}

	st, err := o.stat(true)
	if err != nil {
		return o.createNew(mode)
	}

	if st.typ() == o.typ {
		o.exists = existencePresent
		return nil
	}

	renamed := o.DirectoryPath() + o.BaseName() + "#" + o.Extension()
	o.logger.Debug("path taken by another type, renaming",
		"path", o.FullPath(), "existing", st.typ().String(), "renamed", renamed)
	o.SetPath(renamed)
	return o.Create(mode)
}

func (o *Object) createNew(mode uint32) error {
	full := o.FullPath()

	var err error
	if o.typ == TypeDirectory {
		err = unix.Mkdir(full, mode)
	} else {
		var fd int
		fd, err = unix.Open(full, unix.O_CREAT|unix.O_WRONLY|unix.O_CLOEXEC, mode)
		if err == nil {
			err = unix.Close(fd)
		}
	}

	if err != nil {
		return o.fail(logging.OpCreate, platformerrors.FromOS(err, "create", full))
	}

	o.exists = existencePresent
	logging.LogOperation(o.logger, logging.OpCreate, full, nil)
	return nil
}

// MakePath creates every missing directory of the object's directory path,
// like mkdir -p. It succeeds at once if the object or its directory already
// exists and fails if a component exists but is not a directory.
func (o *Object) MakePath(mode uint32) error {
	if o.Exists() {
		return nil
	}

	dir := o.DirectoryPath()
	if dir == "" {
		return platformerrors.Newf(platformerrors.CodeInvalidInput, "%s has no directory component", o.FullPath())
	}

	dir = strings.TrimSuffix(dir, fspath.Separator)
	if dir == "" {
		return nil
	}

	if st, err := statPath(dir, true); err == nil && st.typ() == TypeDirectory {
		return nil
	}

	for i := 1; i < len(dir); i++ {
		if dir[i] != '/' {
			continue
		}
		if err := o.ensureDir(dir[:i], mode); err != nil {
			return err
		}
	}
	return o.ensureDir(dir, mode)
}

func (o *Object) ensureDir(dir string, mode uint32) error {
	st, err := statPath(dir, true)
	if err != nil {
		if err := unix.Mkdir(dir, mode); err != nil {
			return o.fail(logging.OpMakePath, platformerrors.FromOS(err, "mkdir", dir))
		}
		return nil
	}

	if st.typ() != TypeDirectory {
		return o.fail(logging.OpMakePath, platformerrors.FromOS(unix.ENOTDIR, "mkdir", dir))
	}
	return nil
}

// AbsolutePath returns the canonical path with symlinks resolved. For a
// target that does not exist yet it resolves the containing directory and
// appends the file name. Parent directories are created first.
func (o *Object) AbsolutePath() (string, error) {
	if o.realPath != "" {
		return o.realPath, nil
	}

	_ = o.MakePath(DefaultMode)

	if resolved, err := realpath(o.FullPath()); err == nil {
		o.realPath = resolved
		return resolved, nil
	}

	dir := o.DirectoryPath()
	if dir == "" {
		dir = "."
	}

	resolvedDir, err := realpath(dir)
	if err != nil {
		return "", o.fail(logging.OpRealpath, platformerrors.FromOS(err, "realpath", o.FullPath()))
	}
	return joinPath(resolvedDir, o.FileName()), nil
}

// Move moves the object to dst with mv. If dst does not exist its parents
// are created with the permissions of the source's parent, and dst itself
// is created as a directory when the source is a directory or dst ends in
// '/'. A directory cannot be moved onto an existing non-directory.
func (o *Object) Move(dst string) error {
	target, err := o.prepareTransfer(logging.OpMove, dst)
	if err != nil {
		return err
	}

	src, err := o.AbsolutePath()
	if err != nil {
		return err
	}

	if _, err := o.run(logging.OpMove, "mv "+quote(src)+" "+quote(target.ToNative())); err != nil {
		return err
	}

	o.exists = existenceAbsent
	logging.LogOperation(o.logger, logging.OpMove, o.FullPath(), nil)
	return nil
}

// Copy copies the object to dst with cp -rf, preparing dst like Move.
func (o *Object) Copy(dst string) error {
	target, err := o.prepareTransfer(logging.OpCopy, dst)
	if err != nil {
		return err
	}

	src, err := o.AbsolutePath()
	if err != nil {
		return err
	}

	if _, err := o.run(logging.OpCopy, "cp -rf "+quote(src)+" "+quote(target.ToNative())); err != nil {
		return err
	}

	logging.LogOperation(o.logger, logging.OpCopy, o.FullPath(), nil)
	return nil
}

func (o *Object) prepareTransfer(op logging.Operation, dst string) (*Object, error) {
	if !o.Exists() {
		return nil, o.fail(op, o.notFound())
	}

	target := o.derive(dst, TypeUnknown)
	srcType := o.Type()

	if target.Exists() {
		if srcType == TypeDirectory && target.Type() != TypeDirectory {
			return nil, o.fail(op, platformerrors.Newf(platformerrors.CodeConflict,
				"%s is a directory but %s is not", o.FullPath(), target.FullPath()))
		}
		return target, nil
	}

	parent := o.DirectoryPath()
	if parent == "" {
		parent = "."
	}
	mode := o.derive(parent, TypeUnknown).Mode() & 0o777
	if mode == 0 {
		mode = DefaultMode
	}

	_ = target.MakePath(mode)

	if srcType == TypeDirectory || strings.HasSuffix(target.ToNative(), "/") {
		abs, err := target.AbsolutePath()
		if err != nil {
			return nil, err
		}
		if err := unix.Mkdir(abs, mode); err != nil {
			return nil, o.fail(op, platformerrors.FromOS(err, "mkdir", abs))
		}
	}

	return target, nil
}

// Remove deletes the object: rm -rf for directories, unlink otherwise. A
// symlink is unlinked itself, never its target.
func (o *Object) Remove() error {
	if !o.Exists() {
		return o.fail(logging.OpRemove, o.notFound())
	}

	if o.IsSymbolicLink() {
		if err := unix.Unlink(o.FullPath()); err != nil {
			return o.fail(logging.OpRemove, platformerrors.FromOS(err, "unlink", o.FullPath()))
		}
		o.exists = existenceAbsent
		logging.LogOperation(o.logger, logging.OpRemove, o.FullPath(), nil)
		return nil
	}

	abs, err := o.AbsolutePath()
	if err != nil {
		return err
	}

	if o.Type() == TypeDirectory {
		if _, err := o.run(logging.OpRemove, "rm -rf "+quote(abs)); err != nil {
			return err
		}
	} else if err := unix.Unlink(abs); err != nil {
		return o.fail(logging.OpRemove, platformerrors.FromOS(err, "unlink", abs))
	}

	o.exists = existenceAbsent
	logging.LogOperation(o.logger, logging.OpRemove, o.FullPath(), nil)
	return nil
}

// CreateSymLink creates a symlink at dst pointing at this object's path.
// A missing dst gets its parents created; an existing directory dst
// receives the link under the object's file name; any other existing dst
// is rejected.
func (o *Object) CreateSymLink(dst string) error {
	if !o.Exists() {
		return o.fail(logging.OpSymlink, o.notFound())
	}

	link := o.derive(dst, TypeUnknown)
	if link.Exists() {
		if link.Type() != TypeDirectory {
			return o.fail(logging.OpSymlink, platformerrors.Newf(platformerrors.CodeConflict,
				"%s already exists and is not a directory", link.FullPath()))
		}
		link = o.derive(joinPath(link.FullPath(), o.FileName()), TypeUnknown)
	} else {
		_ = link.MakePath(DefaultMode)
	}

	linkPath, err := link.AbsolutePath()
	if err != nil {
		return err
	}

	if err := unix.Symlink(o.ToNative(), linkPath); err != nil {
		return o.fail(logging.OpSymlink, platformerrors.FromOS(err, "symlink", linkPath))
	}

	logging.LogOperation(o.logger, logging.OpSymlink, linkPath, nil)
	return nil
}

// RemoveSymLink unlinks the path if it is a symlink and re-points the
// object at the link's resolved target. A non-link is left alone.
func (o *Object) RemoveSymLink() error {
	if !o.Exists() {
		return o.fail(logging.OpUnlink, o.notFound())
	}

	if !o.IsSymbolicLink() {
		return nil
	}

	target, err := o.AbsolutePath()
	if err != nil {
		return err
	}

	if err := unix.Unlink(o.ToNative()); err != nil {
		return o.fail(logging.OpUnlink, platformerrors.FromOS(err, "unlink", o.FullPath()))
	}

	logging.LogOperation(o.logger, logging.OpUnlink, o.FullPath(), nil)
	o.SetPath(target)
	return nil
}

// SetOwner changes the owning user by name with chown.
func (o *Object) SetOwner(owner string) error {
	return o.chownBy(logging.OpChown, "chown", owner)
}

// SetGroup changes the owning group by name with chgrp.
func (o *Object) SetGroup(group string) error {
	return o.chownBy(logging.OpChown, "chgrp", group)
}

func (o *Object) chownBy(op logging.Operation, tool, name string) error {
	if !o.Exists() {
		return o.fail(op, o.notFound())
	}

	if name == "" {
		return o.fail(op, platformerrors.Newf(platformerrors.CodeInvalidInput, "%s: empty name", tool))
	}

	abs, err := o.AbsolutePath()
	if err != nil {
		return err
	}

	_, err = o.run(op, tool+" "+quote(name)+" "+quote(abs))
	return err
}

// Chown changes the owning user and group ids directly. An id of -1 leaves
// that id unchanged.
func (o *Object) Chown(uid, gid int) error {
	if !o.Exists() {
		return o.fail(logging.OpChown, o.notFound())
	}

	abs, err := o.AbsolutePath()
	if err != nil {
		return err
	}

	if err := unix.Chown(abs, uid, gid); err != nil {
		return o.fail(logging.OpChown, platformerrors.FromOS(err, "chown", abs))
	}
	return nil
}

// ChangeMode sets the permission and special bits, keeping the type bits.
func (o *Object) ChangeMode(mode uint32) error {
	if !o.Exists() {
		return o.fail(logging.OpChmod, o.notFound())
	}

	st, err := o.stat(true)
	if err != nil {
		return o.fail(logging.OpChmod, err)
	}

	abs, err := o.AbsolutePath()
	if err != nil {
		return err
	}

	mode = (st.mode & typeMask) | (mode &^ typeMask)
	if err := unix.Chmod(abs, mode); err != nil {
		return o.fail(logging.OpChmod, platformerrors.FromOS(err, "chmod", abs))
	}
	return nil
}

func (o *Object) run(op logging.Operation, command string) (*exec.RunResult, error) {
	result, err := o.runner.Run(o.ctx, command)
	if err != nil {
		return result, o.fail(op, err)
	}
	return result, nil
}

func (o *Object) fail(op logging.Operation, err error) error {
	logging.LogOperation(o.logger, op, o.FullPath(), err)
	return err
}

func (o *Object) notFound() error {
	if o.typ == TypeUnknown {
		return platformerrors.Newf(platformerrors.CodeNotFound, "%s does not exist", o.FullPath())
	}
	return platformerrors.Newf(platformerrors.CodeNotFound, "%s does not exist as %s", o.FullPath(), o.typ)
}

// realpath resolves p to an absolute path without symlinks.
func realpath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, fspath.Separator) {
		return dir + name
	}
	return dir + fspath.Separator + name
}

// quote wraps s in double quotes for the shell. The closing quote also
// keeps the runner from reading a '>' inside s as a redirection.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return `"` + r.Replace(s) + `"`
}
