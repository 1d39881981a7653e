package filter

import (
	"testing"
	"time"

	"github.com/fenilsonani/devclean/internal/project"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func sample() project.Projects {
	return project.Projects{
		{Kind: project.Rust, RootPath: "/src/big-old", Name: "big-old",
			Artifacts:    project.BuildArtifacts{Path: "/src/big-old/target", Size: 5000},
			LastModified: now.AddDate(0, 0, -60)},
		{Kind: project.Rust, RootPath: "/src/big-new", Name: "big-new",
			Artifacts:    project.BuildArtifacts{Path: "/src/big-new/target", Size: 4000},
			LastModified: now.AddDate(0, 0, -2)},
		{Kind: project.Node, RootPath: "/src/small-old", Name: "small-old",
			Artifacts:    project.BuildArtifacts{Path: "/src/small-old/node_modules", Size: 10},
			LastModified: now.AddDate(0, 0, -60)},
		{Kind: project.Go, RootPath: "/src/unstatted", Name: "unstatted",
			Artifacts: project.BuildArtifacts{Path: "/src/unstatted/vendor", Size: 2000}},
	}
}

func names(ps project.Projects) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestApplyCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no criteria keeps all", Criteria{},
			[]string{"big-old", "big-new", "small-old", "unstatted"}},
		{"kind only", Criteria{Kind: project.Rust, KindSet: true},
			[]string{"big-old", "big-new"}},
		{"min size", Criteria{MinSize: 1000},
			[]string{"big-old", "big-new", "unstatted"}},
		{"exact min size boundary is kept", Criteria{MinSize: 5000},
			[]string{"big-old"}},
		{"age excludes recent builds", Criteria{MaxAgeDays: 30},
			[]string{"big-old", "small-old", "unstatted"}},
		{"zero mtime is never age-protected", Criteria{MaxAgeDays: 365},
			[]string{"unstatted"}},
		{"all criteria compose with AND", Criteria{Kind: project.Rust, KindSet: true, MinSize: 1000, MaxAgeDays: 30},
			[]string{"big-old"}},
		{"impossible size filters everything", Criteria{MinSize: 1 << 40},
			[]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(apply(sample(), tt.criteria, now))
			if len(got) != len(tt.want) {
				t.Fatalf("kept %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("kept %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := sample()
	apply(in, Criteria{MinSize: 1 << 40}, now)

	if len(in) != 4 {
		t.Errorf("input shrank to %d entries", len(in))
	}
	for _, p := range in {
		if p.Name == "" {
			t.Error("input project was zeroed")
		}
	}
}

func TestApplyOrderPreserved(t *testing.T) {
	got := names(apply(sample(), Criteria{MinSize: 100}, now))
	want := []string{"big-old", "big-new", "unstatted"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order changed: got %v, want %v", got, want)
		}
	}
}
