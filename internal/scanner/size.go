package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ComputeSizes fills in the artifact size and last-modified time of every
// project in result, fanning out one task per project on a bounded group.
// Each project is touched by exactly one task, so no locking is needed
// beyond the shared error log. Unreadable entries contribute zero bytes
// and are recorded as scan errors.
//
// Projects whose artifact directory turns out to be empty (zero bytes)
// are dropped from the result: there is nothing to reclaim.
func (s *Scanner) ComputeSizes(ctx context.Context, result *ScanResult) error {
	workers := s.opts.Threads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range result.Projects {
		p := &result.Projects[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			p.Artifacts.Size = s.dirSize(p.Artifacts.Path)

			// The age filter looks at the artifact directory's mtime; a
			// failed stat leaves the zero time, which the filter treats
			// as "keep".
			if info, err := os.Stat(p.Artifacts.Path); err == nil {
				p.LastModified = info.ModTime()
			} else {
				s.errs.add(p.Artifacts.Path, err)
			}
			return nil
		})
	}

	err := g.Wait()

	sized := result.Projects[:0]
	for _, p := range result.Projects {
		if p.Artifacts.Size > 0 {
			sized = append(sized, p)
		}
	}
	result.Projects = sized
	result.Errors = s.errs.all()

	return err
}

// dirSize sums the sizes of all regular files under dir. Symlinks are not
// followed and contribute nothing; unreadable entries are logged and
// count as zero.
func (s *Scanner) dirSize(dir string) int64 {
	var size int64

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			s.errs.add(path, err)
			return nil
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				s.errs.add(path, err)
				return nil
			}
			size += info.Size()
		}
		return nil
	})

	return size
}
