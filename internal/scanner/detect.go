package scanner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fenilsonani/devclean/internal/project"
)

// pythonMarkers are the config files any one of which marks a Python project.
var pythonMarkers = []string{
	"requirements.txt",
	"setup.py",
	"pyproject.toml",
	"setup.cfg",
	"Pipfile",
	"pipenv.lock",
	"poetry.lock",
}

// pythonCacheDirs are the cache directories a Python project may carry.
// When several exist, the largest one is selected for cleaning.
var pythonCacheDirs = []string{
	"__pycache__",
	".pytest_cache",
	"venv",
	".venv",
	"build",
	"dist",
	".eggs",
	".tox",
	".coverage",
}

// detectProjects checks a single directory against every enabled project
// type, in fixed priority order (Rust, Node, Go, Python). A directory that
// belongs to several ecosystems yields one Project per matched type; the
// artifact directories never collide because each type targets a distinct
// child name.
func (s *Scanner) detectProjects(dir string) []project.Project {
	var found []project.Project

	for _, kind := range project.Types {
		if s.kindSet && kind != s.kind {
			continue
		}

		var p project.Project
		var ok bool
		switch kind {
		case project.Rust:
			p, ok = s.detectMarkerProject(dir, project.Rust, "Cargo.toml", "target", s.extractCargoName)
		case project.Node:
			p, ok = s.detectMarkerProject(dir, project.Node, "package.json", "node_modules", s.extractPackageJSONName)
		case project.Go:
			p, ok = s.detectMarkerProject(dir, project.Go, "go.mod", "vendor", s.extractGoModuleName)
		case project.Python:
			p, ok = s.detectPythonProject(dir)
		}
		if ok {
			found = append(found, p)
		}
	}

	return found
}

// detectMarkerProject handles the single-marker, single-artifact-dir types.
// Both the marker file and the artifact directory must exist as direct
// children of dir.
func (s *Scanner) detectMarkerProject(dir string, kind project.Type, marker, artifactDir string, extractName func(string) string) (project.Project, bool) {
	markerPath := filepath.Join(dir, marker)
	if info, err := os.Stat(markerPath); err != nil || info.IsDir() {
		return project.Project{}, false
	}

	artifactPath := filepath.Join(dir, artifactDir)
	if info, err := os.Stat(artifactPath); err != nil || !info.IsDir() {
		return project.Project{}, false
	}

	name := extractName(markerPath)
	if name == "" {
		name = filepath.Base(dir)
	}

	return project.New(kind, dir, artifactPath, name), true
}

// detectPythonProject matches a directory holding any Python marker file
// plus at least one known cache directory. With several cache dirs the
// largest by a quick size probe is chosen.
func (s *Scanner) detectPythonProject(dir string) (project.Project, bool) {
	hasMarker := false
	for _, marker := range pythonMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
			hasMarker = true
			break
		}
	}
	if !hasMarker {
		return project.Project{}, false
	}

	var bestPath string
	var bestSize int64 = -1
	for _, cache := range pythonCacheDirs {
		cachePath := filepath.Join(dir, cache)
		if info, err := os.Stat(cachePath); err != nil || !info.IsDir() {
			continue
		}
		size := probeDirSize(cachePath)
		if size > bestSize {
			bestSize = size
			bestPath = cachePath
		}
	}
	if bestPath == "" {
		return project.Project{}, false
	}

	name := s.extractPythonName(dir)
	if name == "" {
		name = filepath.Base(dir)
	}

	return project.New(project.Python, dir, bestPath, name), true
}

// probeDirSize is a quick recursive file-size sum used only to pick the
// largest Python cache directory at detection time. Errors count as zero;
// the real size pass runs later and records them.
func probeDirSize(dir string) int64 {
	var size int64
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				size += info.Size()
			}
		}
		return nil
	})
	return size
}

// extractCargoName pulls the package name out of a Cargo.toml with a
// simple line scan for `name = "..."`. A full TOML parser is overkill for
// the one key we need; parse failures just fall back to the directory name.
func (s *Scanner) extractCargoName(cargoToml string) string {
	content, err := os.ReadFile(cargoToml)
	if err != nil {
		s.errs.add(cargoToml, err)
		return ""
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "name") && strings.Contains(line, "=") {
			if name := quotedValue(line); name != "" {
				return name
			}
		}
	}
	return ""
}

// extractPackageJSONName reads the "name" field of a package.json.
func (s *Scanner) extractPackageJSONName(packageJSON string) string {
	content, err := os.ReadFile(packageJSON)
	if err != nil {
		s.errs.add(packageJSON, err)
		return ""
	}

	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(content, &pkg); err != nil {
		s.errs.add(packageJSON, err)
		return ""
	}
	return pkg.Name
}

// extractGoModuleName reads the module declaration of a go.mod and returns
// its last path element.
func (s *Scanner) extractGoModuleName(goMod string) string {
	content, err := os.ReadFile(goMod)
	if err != nil {
		s.errs.add(goMod, err)
		return ""
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			modPath := strings.TrimSpace(strings.TrimPrefix(line, "module "))
			modPath = strings.Trim(modPath, `"`)
			if modPath == "" {
				return ""
			}
			if i := strings.LastIndex(modPath, "/"); i >= 0 {
				return modPath[i+1:]
			}
			return modPath
		}
	}
	return ""
}

// extractPythonName tries pyproject.toml first ([project] or [tool.poetry]
// name), then falls back to scanning setup.py for a name= argument.
func (s *Scanner) extractPythonName(dir string) string {
	if name := s.pyprojectName(filepath.Join(dir, "pyproject.toml")); name != "" {
		return name
	}
	return s.setupPyName(filepath.Join(dir, "setup.py"))
}

func (s *Scanner) pyprojectName(pyproject string) string {
	content, err := os.ReadFile(pyproject)
	if err != nil {
		if !os.IsNotExist(err) {
			s.errs.add(pyproject, err)
		}
		return ""
	}

	inNameSection := false
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") {
			inNameSection = line == "[project]" || line == "[tool.poetry]"
			continue
		}
		if !inNameSection {
			continue
		}
		if strings.HasPrefix(line, "name") && strings.Contains(line, "=") {
			if name := quotedValue(line); name != "" {
				return name
			}
		}
	}
	return ""
}

func (s *Scanner) setupPyName(setupPy string) string {
	content, err := os.ReadFile(setupPy)
	if err != nil {
		if !os.IsNotExist(err) {
			s.errs.add(setupPy, err)
		}
		return ""
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "name")
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len("name"):])
		if !strings.HasPrefix(rest, "=") {
			continue
		}
		if name := quotedValue(rest); name != "" {
			return name
		}
	}
	return ""
}

// quotedValue returns the contents of the first single- or double-quoted
// string in line, or "" when no complete quoted value is present.
func quotedValue(line string) string {
	for _, quote := range []byte{'"', '\''} {
		start := strings.IndexByte(line, quote)
		if start < 0 {
			continue
		}
		end := strings.IndexByte(line[start+1:], quote)
		if end < 0 {
			continue
		}
		return line[start+1 : start+1+end]
	}
	return ""
}
