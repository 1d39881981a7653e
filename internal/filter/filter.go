// Package filter narrows a discovered project list down to the projects
// eligible for cleaning. Every predicate is a pure function of a project
// and the criteria; filtering never mutates a project.
package filter

import (
	"time"

	"github.com/fenilsonani/devclean/internal/project"
)

// Criteria describes which projects survive filtering. All active
// predicates must hold (logical AND).
type Criteria struct {
	// Kind restricts results to a single project type when KindSet is true.
	Kind    project.Type
	KindSet bool

	// MinSize excludes projects whose artifacts are smaller than this many
	// bytes. Small projects are not worth cleaning.
	MinSize int64

	// MaxAgeDays excludes projects modified within the last N days,
	// protecting active work. 0 disables the age predicate.
	MaxAgeDays int
}

// Apply returns the projects matching every active predicate. The input
// slice is not modified.
func Apply(projects project.Projects, c Criteria) project.Projects {
	return apply(projects, c, time.Now())
}

// apply is the clock-injected implementation behind Apply.
func apply(projects project.Projects, c Criteria, now time.Time) project.Projects {
	kept := make(project.Projects, 0, len(projects))
	for _, p := range projects {
		if !matchesKind(p, c) {
			continue
		}
		if !meetsSize(p, c.MinSize) {
			continue
		}
		if !oldEnough(p, c.MaxAgeDays, now) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func matchesKind(p project.Project, c Criteria) bool {
	return !c.KindSet || p.Kind == c.Kind
}

func meetsSize(p project.Project, minSize int64) bool {
	return p.Artifacts.Size >= minSize
}

// oldEnough reports whether the project's artifacts are at least
// maxAgeDays old. A zero LastModified means the scan could not stat the
// directory; such projects are kept rather than silently protected.
func oldEnough(p project.Project, maxAgeDays int, now time.Time) bool {
	if maxAgeDays <= 0 {
		return true
	}
	if p.LastModified.IsZero() {
		return true
	}
	cutoff := now.AddDate(0, 0, -maxAgeDays)
	return !p.LastModified.After(cutoff)
}
