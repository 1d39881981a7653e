// Package testutil provides test fixtures for building fake project trees.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestFixture holds the root of a temporary project tree
type TestFixture struct {
	T       *testing.T
	RootDir string
}

// NewFixture creates a new fixture rooted in a temp directory
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()
	return &TestFixture{
		T:       t,
		RootDir: t.TempDir(),
	}
}

// Path returns the full path for a relative path within the fixture
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// CreateFile creates a file with specified content and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateDir creates a directory and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateSymlink creates a symbolic link at linkPath pointing to target
func (f *TestFixture) CreateSymlink(target, linkPath string) string {
	f.T.Helper()

	fullLinkPath := filepath.Join(f.RootDir, linkPath)
	if err := os.MkdirAll(filepath.Dir(fullLinkPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullLinkPath, err)
	}
	if err := os.Symlink(target, fullLinkPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullLinkPath, target, err)
	}
	return fullLinkPath
}

// SetAge rewinds the modification time of a path by the given duration
func (f *TestFixture) SetAge(relPath string, age time.Duration) {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	oldTime := time.Now().Add(-age)
	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set time for %s: %v", fullPath, err)
	}
}

// =============================================================================
// Project Builders
// =============================================================================

// CreateRustProject creates a Cargo.toml plus a target directory holding
// artifactBytes of build output. Returns the project root.
func (f *TestFixture) CreateRustProject(relPath, name string, artifactBytes int) string {
	f.T.Helper()

	manifest := fmt.Sprintf("[package]\nname = \"%s\"\nversion = \"0.1.0\"\n", name)
	f.CreateFile(filepath.Join(relPath, "Cargo.toml"), []byte(manifest))
	f.CreateFile(filepath.Join(relPath, "target", "debug", "out.bin"), make([]byte, artifactBytes))
	return f.Path(relPath)
}

// CreateNodeProject creates a package.json plus a node_modules directory
// holding artifactBytes of dependencies. Returns the project root.
func (f *TestFixture) CreateNodeProject(relPath, name string, artifactBytes int) string {
	f.T.Helper()

	manifest := fmt.Sprintf("{\"name\": \"%s\", \"version\": \"1.0.0\"}\n", name)
	f.CreateFile(filepath.Join(relPath, "package.json"), []byte(manifest))
	f.CreateFile(filepath.Join(relPath, "node_modules", "dep", "index.js"), make([]byte, artifactBytes))
	return f.Path(relPath)
}

// CreateGoProject creates a go.mod plus a vendor directory holding
// artifactBytes of dependencies. Returns the project root.
func (f *TestFixture) CreateGoProject(relPath, modulePath string, artifactBytes int) string {
	f.T.Helper()

	manifest := fmt.Sprintf("module %s\n\ngo 1.25\n", modulePath)
	f.CreateFile(filepath.Join(relPath, "go.mod"), []byte(manifest))
	f.CreateFile(filepath.Join(relPath, "vendor", "modules.txt"), make([]byte, artifactBytes))
	return f.Path(relPath)
}

// CreatePythonProject creates the given marker file plus one or more cache
// directories, each holding artifactBytes of content. Returns the project root.
func (f *TestFixture) CreatePythonProject(relPath, marker string, artifactBytes int, cacheDirs ...string) string {
	f.T.Helper()

	f.CreateFile(filepath.Join(relPath, marker), []byte("# python project\n"))
	for _, cache := range cacheDirs {
		f.CreateFile(filepath.Join(relPath, cache, "data.bin"), make([]byte, artifactBytes))
	}
	return f.Path(relPath)
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// FileExists checks if a path exists
func (f *TestFixture) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AssertExists fails the test if the path doesn't exist
func (f *TestFixture) AssertExists(path string) {
	f.T.Helper()
	if !f.FileExists(path) {
		f.T.Errorf("expected path to exist: %s", path)
	}
}

// AssertNotExists fails the test if the path exists
func (f *TestFixture) AssertNotExists(path string) {
	f.T.Helper()
	if f.FileExists(path) {
		f.T.Errorf("expected path to not exist: %s", path)
	}
}

// GetDirSize returns the total size of all files in a directory
func GetDirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
