package project

import (
	"sort"
	"strings"
)

// SortCriterion selects how a project list is ordered in reports.
type SortCriterion string

const (
	SortBySize SortCriterion = "size"
	SortByName SortCriterion = "name"
	SortByType SortCriterion = "type"
	SortByAge  SortCriterion = "age"
)

// ValidSortCriterion reports whether s names a known sort criterion.
func ValidSortCriterion(s string) bool {
	switch SortCriterion(s) {
	case SortBySize, SortByName, SortByType, SortByAge:
		return true
	}
	return false
}

// Projects is a collection of detected projects with aggregate operations.
type Projects []Project

// TotalSize returns the combined artifact size of all projects in bytes.
func (ps Projects) TotalSize() int64 {
	var total int64
	for _, p := range ps {
		total += p.Artifacts.Size
	}
	return total
}

// TypeStat holds per-type aggregate numbers for the summary report.
type TypeStat struct {
	Kind  Type
	Count int
	Size  int64
}

// StatsByKind aggregates count and size per project type, in the fixed
// type order so summaries render deterministically.
func (ps Projects) StatsByKind() []TypeStat {
	byKind := make(map[Type]*TypeStat)
	for _, p := range ps {
		st, ok := byKind[p.Kind]
		if !ok {
			st = &TypeStat{Kind: p.Kind}
			byKind[p.Kind] = st
		}
		st.Count++
		st.Size += p.Artifacts.Size
	}

	stats := make([]TypeStat, 0, len(byKind))
	for _, kind := range []Type{Rust, Node, Python, Go} {
		if st, ok := byKind[kind]; ok {
			stats = append(stats, *st)
		}
	}
	return stats
}

// SortBy orders the projects by the given criterion. Size sorts largest
// first and age oldest first; reverse flips whichever order the criterion
// produces. The sort is stable so equal elements keep their scan order.
func (ps Projects) SortBy(criterion SortCriterion, reverse bool) {
	var less func(a, b Project) bool

	switch criterion {
	case SortByName:
		less = func(a, b Project) bool {
			return strings.ToLower(a.DisplayName()) < strings.ToLower(b.DisplayName())
		}
	case SortByType:
		less = func(a, b Project) bool {
			if a.Kind != b.Kind {
				return a.Kind < b.Kind
			}
			return a.RootPath < b.RootPath
		}
	case SortByAge:
		less = func(a, b Project) bool {
			return a.LastModified.Before(b.LastModified)
		}
	default: // SortBySize
		less = func(a, b Project) bool {
			return a.Artifacts.Size > b.Artifacts.Size
		}
	}

	sort.SliceStable(ps, func(i, j int) bool {
		if reverse {
			return less(ps[j], ps[i])
		}
		return less(ps[i], ps[j])
	})
}
