// Package fsobj provides stat-backed handles for files and directories.
//
// An Object is a fspath.Path plus a declared Type and the operations that
// act on whatever the path names on disk: metadata queries, create, move,
// copy, symlink, remove, chmod and chown. Dir and File embed Object and add
// a cached entry listing and a read/write stream respectively.
//
// Operations with a direct syscall (mkdir, open, unlink, symlink, chmod,
// chown) are issued through golang.org/x/sys/unix. Recursive operations and
// directory listing are delegated to an exec.Runner as shell commands
// (mv, cp -rf, rm -rf, ls, chown, chgrp), so a native implementation can be
// swapped in with WithRunner.
//
// Every mutating operation returns an error carrying a platform error code
// from the errors package and logs failures through the configured logger.
// Metadata accessors never fail; they return a sentinel (-1, "", the zero
// time.Time or TypeUnknown) when the object cannot be stat'ed.
//
// Existence is memoized: once observed it is not re-checked, and after a
// successful Remove or Move the object reports absent until SetPath is
// called. Objects are not safe for concurrent use.
//
// The package targets Linux and macOS.
package fsobj
