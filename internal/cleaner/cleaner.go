// Package cleaner deletes build artifact directories and reports how much
// space was reclaimed.
package cleaner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fenilsonani/devclean/internal/project"
	"golang.org/x/sync/errgroup"
)

// DeletionError records a failure to remove one project's artifacts.
// Failures never abort the rest of the batch.
type DeletionError struct {
	Path string
	Err  error
}

func (e DeletionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// CleanResult represents the result of a clean operation
type CleanResult struct {
	CleanedProjects []project.Project
	FreedSize       int64
	SkippedProjects []string
	Errors          []DeletionError
	DryRun          bool
}

// Options configures how a cleanup batch runs.
type Options struct {
	// DryRun reports what would be deleted without touching the disk.
	DryRun bool

	// KeepExecutables preserves built binaries before deleting the
	// artifact directory.
	KeepExecutables bool

	// Threads caps concurrent deletions. Zero means one per CPU.
	Threads int
}

// Cleaner handles artifact directory deletion with safeguards
type Cleaner struct {
	opts Options

	mu     sync.Mutex
	result *CleanResult
}

// New creates a new Cleaner
func New(opts Options) *Cleaner {
	if opts.Threads <= 0 {
		opts.Threads = runtime.NumCPU()
	}
	return &Cleaner{opts: opts}
}

// Clean removes the artifact directory of every given project. Each project
// is re-measured immediately before deletion so the freed total reflects the
// disk at deletion time, not the earlier scan.
func (c *Cleaner) Clean(ctx context.Context, projects project.Projects) (*CleanResult, error) {
	c.mu.Lock()
	c.result = &CleanResult{DryRun: c.opts.DryRun}
	c.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Threads)

	for _, p := range projects {
		p := p
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			c.cleanProject(p)
			return nil
		})
	}

	err := g.Wait()

	c.mu.Lock()
	result := c.result
	c.mu.Unlock()
	return result, err
}

func (c *Cleaner) cleanProject(p project.Project) {
	path := p.Artifacts.Path

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Already gone, nothing to free.
			c.skip(path)
			return
		}
		c.fail(path, err)
		return
	}

	// Refuse to follow a path that changed to a symlink since the scan.
	if info.Mode()&os.ModeSymlink != 0 {
		c.fail(path, fmt.Errorf("path is a symlink"))
		return
	}
	if !info.IsDir() {
		c.fail(path, fmt.Errorf("not a directory"))
		return
	}

	size := measureDir(path)

	if c.opts.DryRun {
		c.succeed(p, size)
		return
	}

	if c.opts.KeepExecutables {
		if err := PreserveExecutables(p); err != nil {
			c.fail(path, fmt.Errorf("preserving executables: %w", err))
			return
		}
	}

	if err := os.RemoveAll(path); err != nil {
		c.fail(path, err)
		return
	}

	c.succeed(p, size)
}

func (c *Cleaner) succeed(p project.Project, freed int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.CleanedProjects = append(c.result.CleanedProjects, p)
	c.result.FreedSize += freed
}

func (c *Cleaner) skip(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.SkippedProjects = append(c.result.SkippedProjects, path)
}

func (c *Cleaner) fail(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.Errors = append(c.result.Errors, DeletionError{Path: path, Err: err})
}

// measureDir totals regular file sizes under dir. Unreadable entries count
// as zero so a permission error cannot block the deletion itself.
func measureDir(dir string) int64 {
	var total int64
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}
