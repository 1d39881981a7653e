package cleaner

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fenilsonani/devclean/internal/project"
)

// rustExcludedExtensions are build metadata files that pass the executable
// permission check on some filesystems but are never useful binaries.
var rustExcludedExtensions = map[string]struct{}{
	".d": {}, ".rmeta": {}, ".rlib": {}, ".a": {},
	".so": {}, ".dylib": {}, ".dll": {}, ".pdb": {},
}

// PreserveExecutables copies compiled outputs out of a project's artifact
// directory before that directory is deleted.
//
// Rust projects keep executables from target/release and target/debug under
// <root>/bin/<profile>. Python projects keep wheels from dist and compiled
// extensions from build under <root>/bin. Node and Go artifacts are
// dependency caches, so there is nothing to preserve.
func PreserveExecutables(p project.Project) error {
	switch p.Kind {
	case project.Rust:
		return preserveRustExecutables(p)
	case project.Python:
		return preservePythonExecutables(p)
	default:
		return nil
	}
}

func preserveRustExecutables(p project.Project) error {
	binDir := filepath.Join(p.RootPath, "bin")

	for _, profile := range []string{"release", "debug"} {
		profileDir := filepath.Join(p.Artifacts.Path, profile)
		info, err := os.Stat(profileDir)
		if err != nil || !info.IsDir() {
			continue
		}

		entries, err := os.ReadDir(profileDir)
		if err != nil {
			return fmt.Errorf("reading %s: %w", profileDir, err)
		}

		destDir := filepath.Join(binDir, profile)
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			if _, excluded := rustExcludedExtensions[filepath.Ext(entry.Name())]; excluded {
				continue
			}
			src := filepath.Join(profileDir, entry.Name())
			fi, err := entry.Info()
			if err != nil || !isExecutable(src, fi) {
				continue
			}
			if err := os.MkdirAll(destDir, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", destDir, err)
			}
			if err := copyFile(src, filepath.Join(destDir, entry.Name())); err != nil {
				return err
			}
		}
	}

	return nil
}

func preservePythonExecutables(p project.Project) error {
	binDir := filepath.Join(p.RootPath, "bin")

	// Wheels from dist.
	distDir := filepath.Join(p.RootPath, "dist")
	if entries, err := os.ReadDir(distDir); err == nil {
		for _, entry := range entries {
			if !entry.Type().IsRegular() || filepath.Ext(entry.Name()) != ".whl" {
				continue
			}
			if err := os.MkdirAll(binDir, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", binDir, err)
			}
			src := filepath.Join(distDir, entry.Name())
			if err := copyFile(src, filepath.Join(binDir, entry.Name())); err != nil {
				return err
			}
		}
	}

	// Compiled extension modules from build.
	buildDir := filepath.Join(p.RootPath, "build")
	return filepath.WalkDir(buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ext := filepath.Ext(d.Name())
		if ext != ".so" && ext != ".pyd" {
			return nil
		}
		if err := os.MkdirAll(binDir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", binDir, err)
		}
		return copyFile(path, filepath.Join(binDir, d.Name()))
	})
}

// isExecutable checks the permission bits on Unix and the .exe extension on
// Windows.
func isExecutable(path string, info os.FileInfo) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(filepath.Ext(path), ".exe")
	}
	return info.Mode().Perm()&0111 != 0
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
