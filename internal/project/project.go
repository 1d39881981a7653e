package project

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type identifies which development ecosystem a project belongs to.
type Type int

const (
	Rust Type = iota
	Node
	Python
	Go
)

// Types lists all supported project types in detection priority order.
var Types = []Type{Rust, Node, Go, Python}

// String returns the display name of the project type
func (t Type) String() string {
	switch t {
	case Rust:
		return "Rust"
	case Node:
		return "Node.js"
	case Python:
		return "Python"
	case Go:
		return "Go"
	default:
		return "Unknown"
	}
}

// Icon returns the emoji used when listing projects of this type
func (t Type) Icon() string {
	switch t {
	case Rust:
		return "🦀"
	case Node:
		return "📦"
	case Python:
		return "🐍"
	case Go:
		return "🐹"
	default:
		return "❓"
	}
}

// MarshalJSON encodes the type as its display name so reports stay
// readable.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// MarshalYAML encodes the type as its display name.
func (t Type) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// ParseType parses a type filter string from CLI flags or the config file.
// The empty string and "all" both mean no type restriction.
func ParseType(s string) (Type, bool, error) {
	switch s {
	case "", "all":
		return 0, false, nil
	case "rust":
		return Rust, true, nil
	case "node":
		return Node, true, nil
	case "python":
		return Python, true, nil
	case "go":
		return Go, true, nil
	default:
		return 0, false, fmt.Errorf("unknown project type %q (want all, rust, node, python, or go)", s)
	}
}

// BuildArtifacts describes the directory a cleanup would remove.
// Size stays 0 until the size pass runs.
type BuildArtifacts struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

// Project represents a detected development project and its cleanable
// build directory. A Project is created by the scanner, has its size
// filled in exactly once by the size pass, and is read-only after that.
type Project struct {
	Kind         Type           `json:"kind" yaml:"kind"`
	RootPath     string         `json:"root_path" yaml:"root_path"`
	Artifacts    BuildArtifacts `json:"artifacts" yaml:"artifacts"`
	Name         string         `json:"name,omitempty" yaml:"name,omitempty"`
	LastModified time.Time      `json:"last_modified" yaml:"last_modified"`
}

// New creates a Project rooted at rootPath whose artifacts live at artifactPath.
func New(kind Type, rootPath, artifactPath, name string) Project {
	return Project{
		Kind:     kind,
		RootPath: rootPath,
		Artifacts: BuildArtifacts{
			Path: artifactPath,
		},
		Name: name,
	}
}

// DisplayName returns the project name, or its root path when no name
// could be extracted from the project's config file.
func (p Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.RootPath
}

// String formats the project for listings, e.g. "🦀 ripgrep (/home/u/src/rg)".
func (p Project) String() string {
	if p.Name != "" {
		return fmt.Sprintf("%s %s (%s)", p.Kind.Icon(), p.Name, p.RootPath)
	}
	return fmt.Sprintf("%s %s", p.Kind.Icon(), p.RootPath)
}
