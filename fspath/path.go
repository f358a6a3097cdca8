package fspath

import (
	"runtime"
	"strings"
)

// Separator is the unified path separator.
const Separator = "/"

// Path is a unified path string plus its lazily analyzed components.
//
// The zero value is an empty path. A Path is not safe for concurrent use
// because read accessors fill the component cache on first use.
type Path struct {
	path            string
	pointsToContent bool
	details         *details
}

// details is the analyzed component bundle. It is immutable once built, so
// it may be shared between clones.
type details struct {
	fullPath      string
	fileName      string
	baseName      string
	extension     string
	directoryPath string
	driveLetter   string
	absolute      bool
}

// New creates a Path from s, translating '\' separators to '/'.
func New(s string) *Path {
	p := &Path{}
	p.SetPath(s)
	return p
}

// SetPath replaces the path string and drops all cached components.
func (p *Path) SetPath(s string) {
	p.path = strings.ReplaceAll(s, `\`, Separator)
	p.details = nil
	p.pointsToContent = strings.HasSuffix(p.path, Separator)
}

// UnifiedPath returns the path exactly as stored, with '/' separators.
func (p *Path) UnifiedPath() string {
	return p.path
}

// String implements fmt.Stringer and returns the unified path.
func (p *Path) String() string {
	return p.path
}

// ToNative returns the path using the host platform's separator.
func (p *Path) ToNative() string {
	if runtime.GOOS == "windows" {
		return strings.ReplaceAll(p.path, Separator, `\`)
	}
	return p.path
}

// IsEmpty reports whether the path string is empty.
func (p *Path) IsEmpty() bool {
	return p.path == ""
}

// PointsToContent reports whether the path ends with a separator, meaning
// it refers to the contents of a directory rather than the directory itself.
func (p *Path) PointsToContent() bool {
	return p.pointsToContent
}

// FullPath returns the path without a trailing separator, except for a bare
// root such as "/" or "C:/".
func (p *Path) FullPath() string {
	return p.analyze().fullPath
}

// FileName returns the last path component.
func (p *Path) FileName() string {
	return p.analyze().fileName
}

// BaseName returns the file name up to its first '.' after index 0.
func (p *Path) BaseName() string {
	return p.analyze().baseName
}

// Extension returns the file name from its first '.' after index 0, dot
// included, or "" if there is none.
func (p *Path) Extension() string {
	return p.analyze().extension
}

// DirectoryPath returns everything before the file name, trailing separator
// included.
func (p *Path) DirectoryPath() string {
	return p.analyze().directoryPath
}

// DriveLetter returns the drive spec (for example "C:") or "".
func (p *Path) DriveLetter() string {
	return p.analyze().driveLetter
}

// IsAbsolute reports whether the path starts at a root: a leading separator
// or a two character drive spec.
func (p *Path) IsAbsolute() bool {
	return p.analyze().absolute
}

// IsRelative is the negation of IsAbsolute.
func (p *Path) IsRelative() bool {
	return !p.IsAbsolute()
}

// Clone returns an independent copy of p.
func (p *Path) Clone() *Path {
	c := *p
	return &c
}

// Resolve combines p with other. An absolute other wins outright; otherwise
// the result is the plain concatenation p.FullPath() + "/" + other. No '.'
// or '..' cleanup happens here, see Resolved for that.
func (p *Path) Resolve(other *Path) *Path {
	if other == nil {
		other = &Path{}
	}

	switch {
	case other.IsEmpty() && p.IsEmpty():
		return &Path{}
	case other.IsAbsolute() || p.IsEmpty():
		return other.Clone()
	case other.IsEmpty():
		return p.Clone()
	}

	return New(p.FullPath() + Separator + other.UnifiedPath())
}

// Resolved returns the path with '.' segments dropped and '..' segments
// applied. A '..' that has nothing left to remove is discarded on absolute
// paths and kept on relative ones, so "./jp/../../pp" becomes "../pp". An
// empty result is returned as ".".
func (p *Path) Resolved() string {
	parts := splitSegments(p.path)

	stack := make([]string, 0, len(parts))
	removable := 0
	absolute := false

	for i, part := range parts {
		if i == 0 && isRootSegment(part) {
			absolute = true
		}

		switch {
		case part == ".":
			continue
		case part == "..":
			if removable > 0 {
				stack = stack[:len(stack)-1]
				removable--
				continue
			}
			if absolute {
				continue
			}
			stack = append(stack, part)
		default:
			stack = append(stack, part)
			if i != 0 || !absolute {
				removable++
			}
		}
	}

	var b strings.Builder
	for i, part := range stack {
		b.WriteString(part)
		if i+1 < len(stack) || (i == 0 && absolute) {
			b.WriteString(Separator)
		}
	}

	if b.Len() == 0 {
		return "."
	}
	return b.String()
}

func (p *Path) analyze() *details {
	if p.details != nil {
		return p.details
	}

	d := &details{}
	parts := splitSegments(p.path)
	n := len(parts)

	for i := range parts {
		switch {
		case i == 0 && isRootSegment(parts[i]):
			parts[i] += Separator
			d.absolute = true
		case i < n-1:
			parts[i] += Separator
		}
	}

	if n > 0 {
		d.fileName = parts[n-1]
	}

	switch {
	case n > 1:
		d.directoryPath = strings.Join(parts[:n-1], "")
		d.fullPath = d.directoryPath + d.fileName
	case n == 1 && d.absolute:
		d.directoryPath = parts[0]
		d.fullPath = d.directoryPath
	case n == 1:
		d.fullPath = d.fileName
	}

	d.baseName, d.extension = splitExtension(d.fileName)

	if strings.IndexByte(d.fullPath, ':') == 1 {
		d.driveLetter = p.path[:2]
	}

	p.details = d
	return d
}

// splitSegments splits s on '/' the way a line reader would: an empty
// string has no segments and a single trailing separator does not produce an
// empty final segment.
func splitSegments(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, Separator)
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// isRootSegment reports whether the first segment of a path marks it as
// absolute: empty (leading '/') or a drive spec like "C:".
func isRootSegment(segment string) bool {
	return segment == "" || (len(segment) == 2 && segment[1] == ':')
}

func splitExtension(name string) (string, string) {
	if name == "." || name == ".." || len(name) < 2 {
		return name, ""
	}

	pos := strings.IndexByte(name[1:], '.')
	if pos < 0 {
		return name, ""
	}
	pos++
	return name[:pos], name[pos:]
}
