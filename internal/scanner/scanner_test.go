package scanner

import (
	"context"
	"os"
	"testing"

	"github.com/fenilsonani/devclean/internal/project"
	"github.com/fenilsonani/devclean/internal/testutil"
)

func TestScanFindsNestedProjects(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateRustProject("work/tools/cli", "cli", 10)
	f.CreateNodeProject("work/sites/blog", "blog", 10)
	f.CreateGoProject("work/services/api/gateway", "example.com/gateway", 10)

	result := scanAll(t, f.RootDir)
	if len(result.Projects) != 3 {
		t.Fatalf("got %d projects, want 3", len(result.Projects))
	}
	findProject(t, result, project.Rust, f.Path("work/tools/cli"))
	findProject(t, result, project.Node, f.Path("work/sites/blog"))
	findProject(t, result, project.Go, f.Path("work/services/api/gateway"))
}

func TestScanInvalidRoot(t *testing.T) {
	s := New(ScanOptions{}, 0, false)

	if _, err := s.Scan(context.Background(), "/does/not/exist"); err == nil {
		t.Error("expected error for missing root")
	}

	f := testutil.NewFixture(t)
	file := f.CreateFile("plain.txt", []byte("x"))
	if _, err := s.Scan(context.Background(), file); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestScanDoesNotDescendIntoArtifacts(t *testing.T) {
	f := testutil.NewFixture(t)
	// A complete project vendored inside node_modules must not be reported.
	f.CreateNodeProject("app", "app", 10)
	f.CreateRustProject("app/node_modules/some-dep", "hidden", 10)

	result := scanAll(t, f.RootDir)
	if len(result.Projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(result.Projects))
	}
	if result.Projects[0].Kind != project.Node {
		t.Errorf("found %s project, want the outer Node.js one", result.Projects[0].Kind)
	}
}

func TestScanSkipsHiddenDirs(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateRustProject(".stash/app", "stashed", 10)

	result := scanAll(t, f.RootDir)
	if len(result.Projects) != 0 {
		t.Errorf("expected hidden directories to be pruned, got %d projects", len(result.Projects))
	}
}

func TestScanDescendsIntoDotCargo(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateRustProject(".cargo/registry-tool", "reg", 10)

	result := scanAll(t, f.RootDir)
	if len(result.Projects) != 1 {
		t.Errorf(".cargo should be scanned, got %d projects", len(result.Projects))
	}
}

func TestScanDoesNotFollowSymlinks(t *testing.T) {
	f := testutil.NewFixture(t)
	real := f.CreateRustProject("real/app", "app", 10)
	f.CreateSymlink(real, "elsewhere/link")

	result := scanAll(t, f.RootDir)
	if len(result.Projects) != 1 {
		t.Fatalf("got %d projects, want 1 (symlink must not duplicate)", len(result.Projects))
	}
	if result.Projects[0].RootPath != real {
		t.Errorf("project root = %q, want the real path %q", result.Projects[0].RootPath, real)
	}
}

func TestScanSkipDirsByName(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateRustProject("keep/app", "kept", 10)
	f.CreateRustProject("experiments/app", "skipped", 10)

	s := New(ScanOptions{SkipDirs: []string{"experiments"}}, 0, false)
	result, err := s.Scan(context.Background(), f.RootDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Projects) != 1 || result.Projects[0].Name != "kept" {
		t.Errorf("expected only the kept project, got %+v", result.Projects)
	}
}

func TestScanIgnorePathPrefix(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateRustProject("keep/app", "kept", 10)
	f.CreateRustProject("archive/old/app", "ignored", 10)

	s := New(ScanOptions{IgnorePaths: []string{f.Path("archive")}}, 0, false)
	result, err := s.Scan(context.Background(), f.RootDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Projects) != 1 || result.Projects[0].Name != "kept" {
		t.Errorf("expected only the kept project, got %+v", result.Projects)
	}
}

func TestScanSurvivesUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	f := testutil.NewFixture(t)
	f.CreateRustProject("ok/app", "app", 10)
	locked := f.CreateDir("locked")
	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	result := scanAll(t, f.RootDir)

	if len(result.Projects) != 1 {
		t.Errorf("got %d projects, want 1", len(result.Projects))
	}
	if len(result.Errors) == 0 {
		t.Error("expected the unreadable directory to be recorded as an error")
	}
}

func TestScanCancellation(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateRustProject("app", "app", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(ScanOptions{}, 0, false)
	if _, err := s.Scan(ctx, f.RootDir); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateRustProject("a", "a", 10)
	f.CreateNodeProject("b", "b", 10)

	s := New(ScanOptions{}, 0, false)
	first, err := s.Scan(context.Background(), f.RootDir)
	if err != nil {
		t.Fatalf("first Scan failed: %v", err)
	}
	second, err := s.Scan(context.Background(), f.RootDir)
	if err != nil {
		t.Fatalf("second Scan failed: %v", err)
	}

	if len(first.Projects) != len(second.Projects) {
		t.Errorf("scan results differ: %d vs %d projects", len(first.Projects), len(second.Projects))
	}
}
