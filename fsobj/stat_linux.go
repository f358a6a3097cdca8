//go:build linux

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
		mode:    st.Mode,
		ino:     st.Ino,
		nlink:   uint64(st.Nlink),
		uid:     st.Uid,
		gid:     st.Gid,
		blksize: int64(st.Blksize),
		size:    st.Size,
		blocks:  st.Blocks,
		atime:   time.Unix(st.Atim.Unix()),
		mtime:   time.Unix(st.Mtim.Unix()),
		ctime:   time.Unix(st.Ctim.Unix()),
	}, nil
}
