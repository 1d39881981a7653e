package cleaner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fenilsonani/devclean/internal/project"
	"github.com/fenilsonani/devclean/internal/testutil"
)

func rustProject(f *testutil.TestFixture, relPath, name string, size int) project.Project {
	root := f.CreateRustProject(relPath, name, size)
	p := project.New(project.Rust, root, filepath.Join(root, "target"), name)
	p.Artifacts.Size = int64(size)
	return p
}

func TestCleanRemovesArtifacts(t *testing.T) {
	f := testutil.NewFixture(t)
	p := rustProject(f, "app", "app", 500)

	result, err := New(Options{}).Clean(context.Background(), project.Projects{p})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if len(result.CleanedProjects) != 1 {
		t.Fatalf("cleaned %d projects, want 1", len(result.CleanedProjects))
	}
	if result.FreedSize != 500 {
		t.Errorf("FreedSize = %d, want 500", result.FreedSize)
	}
	f.AssertNotExists(p.Artifacts.Path)
	f.AssertExists(p.RootPath)
	f.AssertExists(filepath.Join(p.RootPath, "Cargo.toml"))
}

func TestCleanDryRunTouchesNothing(t *testing.T) {
	f := testutil.NewFixture(t)
	p := rustProject(f, "app", "app", 500)

	result, err := New(Options{DryRun: true}).Clean(context.Background(), project.Projects{p})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if !result.DryRun {
		t.Error("result should be marked dry-run")
	}
	if result.FreedSize != 500 {
		t.Errorf("FreedSize = %d, want the would-be 500", result.FreedSize)
	}
	f.AssertExists(p.Artifacts.Path)
}

func TestCleanRemeasuresBeforeDeleting(t *testing.T) {
	f := testutil.NewFixture(t)
	p := rustProject(f, "app", "app", 100)

	// The tree grew since the scan; freed space reflects deletion time.
	f.CreateFile("app/target/extra.bin", make([]byte, 900))

	result, err := New(Options{}).Clean(context.Background(), project.Projects{p})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if result.FreedSize != 1000 {
		t.Errorf("FreedSize = %d, want re-measured 1000", result.FreedSize)
	}
}

func TestCleanSkipsAlreadyRemoved(t *testing.T) {
	f := testutil.NewFixture(t)
	p := rustProject(f, "app", "app", 100)
	existing := rustProject(f, "other", "other", 100)

	// Simulate another process removing the directory between scan and clean.
	p.Artifacts.Path = filepath.Join(p.RootPath, "gone")

	result, err := New(Options{}).Clean(context.Background(), project.Projects{p, existing})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if len(result.SkippedProjects) != 1 {
		t.Errorf("skipped %d, want 1", len(result.SkippedProjects))
	}
	if len(result.CleanedProjects) != 1 {
		t.Errorf("cleaned %d, want 1 (failures must not abort the batch)", len(result.CleanedProjects))
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestCleanRefusesSymlinkArtifact(t *testing.T) {
	f := testutil.NewFixture(t)
	victim := f.CreateDir("victim")
	f.CreateFile("victim/keep.txt", []byte("important"))
	link := f.CreateSymlink(victim, "app/target")
	f.CreateFile("app/Cargo.toml", []byte("[package]\nname = \"app\"\n"))

	p := project.New(project.Rust, f.Path("app"), link, "app")

	result, err := New(Options{}).Clean(context.Background(), project.Projects{p})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
	f.AssertExists(f.Path("victim/keep.txt"))
}

func TestCleanManyProjects(t *testing.T) {
	f := testutil.NewFixture(t)
	var ps project.Projects
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ps = append(ps, rustProject(f, name, name, 100))
	}

	result, err := New(Options{Threads: 2}).Clean(context.Background(), ps)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if len(result.CleanedProjects) != 5 {
		t.Errorf("cleaned %d, want 5", len(result.CleanedProjects))
	}
	if result.FreedSize != 500 {
		t.Errorf("FreedSize = %d, want 500", result.FreedSize)
	}
	for _, p := range ps {
		f.AssertNotExists(p.Artifacts.Path)
	}
}
