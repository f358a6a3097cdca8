package fsobj

import "time"

// statInfo is the platform-neutral subset of struct stat used here.
type statInfo struct {
	mode    uint32
	ino     uint64
	nlink   uint64
	uid     uint32
	gid     uint32
	blksize int64
	size    int64
	blocks  int64
	atime   time.Time
	mtime   time.Time
	ctime   time.Time
}

func (s *statInfo) typ() Type {
	return typeOf(s.mode)
}

// matches reports whether the on-disk kind satisfies a declared type. Only
// the regular-file and directory declarations are checked.
func (s *statInfo) matches(declared Type) bool {
	switch declared {
	case TypeRegularFile, TypeDirectory:
		return s.typ() == declared
	default:
		return true
	}
}
