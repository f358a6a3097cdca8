//go:build darwin

package fsobj

import (
	"time"

	"golang.org/x/sys/unix"
)

// statPath stats path, following symlinks when follow is set.
func statPath(path string, follow bool) (*statInfo, error) {
	var st unix.Stat_t

	var err error
	if follow {
		err = unix.Stat(path, &st)
	} else {
		err = unix.Lstat(path, &st)
	}
	if err != nil {
		return nil, err
	}

	return &statInfo{
		mode:    uint32(st.Mode),
		ino:     st.Ino,
		nlink:   uint64(st.Nlink),
		uid:     st.Uid,
		gid:     st.Gid,
		blksize: int64(st.Blksize),
		size:    st.Size,
		blocks:  st.Blocks,
		atime:   time.Unix(st.Atimespec.Unix()),
		mtime:   time.Unix(st.Mtimespec.Unix()),
		ctime:   time.Unix(st.Ctimespec.Unix()),
	}, nil
}
