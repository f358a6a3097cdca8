// Package fspath provides a purely syntactic path model.
//
// A Path holds a unified path string, using '/' as the only separator no
// matter the host platform, and lazily derives its components: full path,
// file name, base name, extension, directory path, drive letter and whether
// the path is absolute. The derived components are computed once per path
// string and cached until the path is replaced with SetPath.
//
// Nothing in this package touches the filesystem:
//
//	base := fspath.New("../jp/pp/")
//	p := base.Resolve(fspath.New("rp"))
//	p.FullPath()  // "../jp/pp/rp"
//	p.Resolved()  // "../jp/pp/rp"
//
// Drive specs such as "C:" are recognized as absolute roots so that
// Windows-style paths can be modelled on any platform.
package fspath
