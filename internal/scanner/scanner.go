// Package scanner discovers development projects and their build
// directories beneath a root path. Traversal is recursive and parallel,
// never follows symlinks, and collects per-entry errors instead of
// aborting: a scan always completes and reports the union of successes
// and failures.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fenilsonani/devclean/internal/project"
)

// ScanOptions configures traversal behavior.
type ScanOptions struct {
	// Threads bounds the worker pool; 0 means runtime.NumCPU().
	Threads int

	// SkipDirs are directory names (or path prefixes, when they contain a
	// separator) that are never descended into.
	SkipDirs []string

	// IgnorePaths are absolute path prefixes excluded from the scan entirely.
	IgnorePaths []string
}

// ScanError records a path that could not be read during scanning.
type ScanError struct {
	Path string
	Err  error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// ScanResult holds the projects discovered by a scan together with the
// non-fatal errors encountered along the way.
type ScanResult struct {
	Projects project.Projects
	Errors   []ScanError
}

// TotalSize returns the combined artifact size of all discovered projects.
func (r *ScanResult) TotalSize() int64 {
	return r.Projects.TotalSize()
}

// errorCollector is the shared append-only error log for one scan.
type errorCollector struct {
	mu   sync.Mutex
	errs []ScanError
}

func (c *errorCollector) add(path string, err error) {
	c.mu.Lock()
	c.errs = append(c.errs, ScanError{Path: path, Err: err})
	c.mu.Unlock()
}

func (c *errorCollector) all() []ScanError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ScanError(nil), c.errs...)
}

// prunedDirs are directory names never descended into: version control
// trees, the artifact directories themselves, and common temp dirs.
// Detection looks at these as children of their parent, so pruning them
// here never hides a project.
var prunedDirs = map[string]struct{}{
	"target":        {},
	"node_modules":  {},
	"vendor":        {},
	"__pycache__":   {},
	".pytest_cache": {},
	"venv":          {},
	".venv":         {},
	"build":         {},
	"dist":          {},
	".eggs":         {},
	".tox":          {},
	".coverage":     {},
	".git":          {},
	".svn":          {},
	".hg":           {},
	"out":           {},
	"env":           {},
	".env":          {},
	"temp":          {},
	"tmp":           {},
}

// Scanner walks a directory tree looking for development projects.
type Scanner struct {
	opts    ScanOptions
	kind    project.Type
	kindSet bool

	sem  chan struct{}
	errs *errorCollector

	mu       sync.Mutex
	projects project.Projects
}

// New creates a Scanner. When kindSet is true, detection is restricted to
// the single given project type.
func New(opts ScanOptions, kind project.Type, kindSet bool) *Scanner {
	workers := opts.Threads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Scanner{
		opts:    opts,
		kind:    kind,
		kindSet: kindSet,
		sem:     make(chan struct{}, workers),
		errs:    &errorCollector{},
	}
}

// Scan traverses the tree rooted at root and returns every detected
// project (sizes unfilled) plus the collected per-entry errors. The only
// fatal condition is an invalid root; everything below it is non-fatal.
// Cancellation is checked between directory expansions, and a canceled
// scan returns the context error alongside whatever was found so far.
func (s *Scanner) Scan(ctx context.Context, root string) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot scan %s: not a directory", root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve %s: %w", root, err)
	}

	s.errs = &errorCollector{}
	s.projects = nil

	var wg sync.WaitGroup
	wg.Add(1)
	go s.scanDir(ctx, abs, &wg)
	wg.Wait()

	result := &ScanResult{
		Projects: s.projects,
		Errors:   s.errs.all(),
	}
	return result, ctx.Err()
}

// scanDir examines one directory and dispatches children to the pool.
func (s *Scanner) scanDir(ctx context.Context, dir string, wg *sync.WaitGroup) {
	defer wg.Done()

	if ctx.Err() != nil {
		return
	}

	detected := s.detectProjects(dir)
	if len(detected) > 0 {
		s.mu.Lock()
		s.projects = append(s.projects, detected...)
		s.mu.Unlock()
	}

	s.sem <- struct{}{}
	entries, err := os.ReadDir(dir)
	<-s.sem

	if err != nil {
		s.errs.add(dir, err)
		return
	}

	for _, entry := range entries {
		// Symlinks report IsDir()==false here, so they are never followed.
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		if s.shouldSkip(dir, name) {
			continue
		}

		wg.Add(1)
		go s.scanDir(ctx, filepath.Join(dir, name), wg)
	}
}

// shouldSkip decides whether the child directory name under dir is
// descended into. Matched artifact directories, hidden directories
// (except .cargo), and user-configured skips are all pruned.
func (s *Scanner) shouldSkip(dir, name string) bool {
	if _, ok := prunedDirs[name]; ok {
		return true
	}

	if strings.HasPrefix(name, ".") && name != ".cargo" {
		return true
	}

	full := filepath.Join(dir, name)
	for _, skip := range s.opts.SkipDirs {
		if strings.ContainsRune(skip, os.PathSeparator) {
			if pathHasPrefix(full, skip) {
				return true
			}
		} else if name == skip {
			return true
		}
	}
	for _, ignore := range s.opts.IgnorePaths {
		if pathHasPrefix(full, ignore) {
			return true
		}
	}

	return false
}

// pathHasPrefix reports whether path is prefix itself or lies below it.
func pathHasPrefix(path, prefix string) bool {
	prefix = filepath.Clean(prefix)
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(os.PathSeparator))
}
