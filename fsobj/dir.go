package fsobj

import (
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	platformerrors "github.com/jmgilman/sysfs/errors"
	"github.com/jmgilman/sysfs/internal/logging"
)

// existsConcurrency bounds the parallel existence checks of a listing.
const existsConcurrency = 8

// Dir is a directory Object with a cached entry listing.
type Dir struct {
	*Object

	entries    []*Object
	lastUpdate time.Time
	listed     bool
}

// NewDir returns a Dir declared as a directory.
func NewDir(path string, opts ...Option) *Dir {
	d := &Dir{Object: NewTyped(path, TypeDirectory, opts...)}
	d.onRepoint = d.Invalidate
	return d
}

// Invalidate drops the cached listing so the next Entries call re-lists.
func (d *Dir) Invalidate() {
	d.entries = nil
	d.lastUpdate = time.Time{}
	d.listed = false
}

// Entries returns the directory's children. The listing is rebuilt only
// when the directory's modification time differs from the one seen at the
// last listing; otherwise the cached slice itself is returned, so callers
// must not modify it.
func (d *Dir) Entries() ([]*Object, error) {
	mtime := d.LastUpdateTime()
	if d.listed && mtime.Equal(d.lastUpdate) {
		return d.entries, nil
	}

	if !d.Exists() {
		return nil, d.fail(logging.OpList, d.notFound())
	}

	abs, err := d.AbsolutePath()
	if err != nil {
		return nil, err
	}

	result, err := d.run(logging.OpList, "ls "+quote(joinPath(abs, "")))
	if err != nil {
		return nil, err
	}

	var candidates []*Object
	for _, line := range result.Lines {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		candidates = append(candidates, d.derive(joinPath(abs, name), TypeUnknown))
	}

	// Each candidate is checked by exactly one goroutine.
	present := make([]bool, len(candidates))
	var eg errgroup.Group
	eg.SetLimit(existsConcurrency)
	for i, child := range candidates {
		eg.Go(func() error {
			present[i] = child.Exists()
			return nil
		})
	}
	_ = eg.Wait()

	entries := make([]*Object, 0, len(candidates))
	for i, child := range candidates {
		if present[i] {
			entries = append(entries, child)
		}
	}

	d.entries = entries
	d.lastUpdate = mtime
	d.listed = true
	d.logger.Debug("directory listed", "path", abs, "entries", len(entries))

	return d.entries, nil
}

// Glob returns the entries whose file name matches pattern, using
// doublestar syntax.
func (d *Dir) Glob(pattern string) ([]*Object, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, d.fail(logging.OpList,
			platformerrors.Newf(platformerrors.CodeInvalidInput, "invalid glob pattern %q", pattern))
	}

	entries, err := d.Entries()
	if err != nil {
		return nil, err
	}

	var matched []*Object
	for _, entry := range entries {
		ok, err := doublestar.Match(pattern, entry.FileName())
		if err != nil {
			return nil, d.fail(logging.OpList,
				platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "match %q", pattern))
		}
		if ok {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}
