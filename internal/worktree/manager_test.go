package worktree

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatal(err)
	}
}

func TestRootPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		branch string
		want   string
	}{
		{"default format", "{root}-{branch}", "feat-x", "/src/acme-feat-x"},
		{"slash sanitized", "{root}-{branch}", "feat/login", "/src/acme-feat-login"},
		{"custom format", "wt.{branch}", "fix/y", "/src/wt.fix-y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := &Manager{FleetRoot: "/src/acme", Format: tt.format}
			if got := m.RootPath(tt.branch); got != tt.want {
				t.Errorf("RootPath(%q) = %q, want %q", tt.branch, got, tt.want)
			}
		})
	}

	m := &Manager{FleetRoot: "/src/acme", Format: "{root}-{branch}"}
	if got := m.LinkedPath("/src/acme-x", "api"); got != "/src/acme-x/api" {
		t.Errorf("LinkedPath() = %q", got)
	}
}

func TestFinalize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fleet := t.TempDir()
	writeFile(t, filepath.Join(fleet, "AGENTS.md"), "# agents", 0o644)
	bin := filepath.Join(t.TempDir(), "fleet")
	writeFile(t, bin, "#!/bin/sh\n", 0o755)

	m := &Manager{
		FleetRoot:   fleet,
		Format:      "{root}-{branch}",
		SharedFiles: []string{"AGENTS.md", "CLAUDE.md"},
		ToolRepo:    "fleet",
		ToolBinary:  bin,
	}

	t.Run("tool repo outside fleet", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		if err := m.Finalize(ctx, root, []string{"api", "web"}); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		data, err := os.ReadFile(filepath.Join(root, "AGENTS.md"))
		if err != nil || string(data) != "# agents" {
			t.Errorf("AGENTS.md = %q, %v", data, err)
		}
		// missing shared files are skipped
		if _, err := os.Stat(filepath.Join(root, "CLAUDE.md")); !os.IsNotExist(err) {
			t.Errorf("CLAUDE.md should not exist: %v", err)
		}
		info, err := os.Stat(filepath.Join(root, "fleet"))
		if err != nil {
			t.Fatalf("tool binary not copied: %v", err)
		}
		if info.Mode().Perm()&0o100 == 0 {
			t.Errorf("tool binary mode = %v, want executable", info.Mode())
		}
	})

	t.Run("tool repo in fleet", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		if err := m.Finalize(ctx, root, []string{"api", "fleet"}); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "fleet")); !os.IsNotExist(err) {
			t.Errorf("tool binary copied although its repo is in the fleet: %v", err)
		}
	})
}

func TestCleanup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := &Manager{SharedFiles: []string{"AGENTS.md"}, ToolBinary: "/usr/local/bin/fleet"}

	t.Run("only aux copies", func(t *testing.T) {
		t.Parallel()
		root := filepath.Join(t.TempDir(), "acme-x")
		writeFile(t, filepath.Join(root, "AGENTS.md"), "a", 0o644)
		writeFile(t, filepath.Join(root, "fleet"), "b", 0o755)

		removed, leftovers, err := m.Cleanup(ctx, root)
		if err != nil || !removed || leftovers != nil {
			t.Fatalf("Cleanup() = %v, %v, %v", removed, leftovers, err)
		}
		if _, err := os.Stat(root); !os.IsNotExist(err) {
			t.Errorf("root still exists: %v", err)
		}
	})

	t.Run("foreign files keep root", func(t *testing.T) {
		t.Parallel()
		root := filepath.Join(t.TempDir(), "acme-x")
		writeFile(t, filepath.Join(root, "AGENTS.md"), "a", 0o644)
		writeFile(t, filepath.Join(root, "notes.txt"), "mine", 0o644)
		writeFile(t, filepath.Join(root, "web", "index.html"), "x", 0o644)

		removed, leftovers, err := m.Cleanup(ctx, root)
		if err != nil || removed {
			t.Fatalf("Cleanup() = %v, %v", removed, err)
		}
		if want := []string{"notes.txt", "web"}; !reflect.DeepEqual(leftovers, want) {
			t.Errorf("leftovers = %v, want %v", leftovers, want)
		}
		if _, err := os.Stat(filepath.Join(root, "notes.txt")); err != nil {
			t.Errorf("foreign file removed: %v", err)
		}
	})

	t.Run("directory named like the binary keeps root", func(t *testing.T) {
		t.Parallel()
		root := filepath.Join(t.TempDir(), "acme-x")
		writeFile(t, filepath.Join(root, "AGENTS.md"), "a", 0o644)
		writeFile(t, filepath.Join(root, "fleet", "wip.txt"), "uncommitted", 0o644)

		removed, leftovers, err := m.Cleanup(ctx, root)
		if err != nil || removed {
			t.Fatalf("Cleanup() = %v, %v", removed, err)
		}
		if want := []string{"fleet"}; !reflect.DeepEqual(leftovers, want) {
			t.Errorf("leftovers = %v, want %v", leftovers, want)
		}
		if _, err := os.Stat(filepath.Join(root, "fleet", "wip.txt")); err != nil {
			t.Errorf("linked worktree content removed: %v", err)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		removed, leftovers, err := m.Cleanup(ctx, filepath.Join(t.TempDir(), "nope"))
		if err != nil || removed || leftovers != nil {
			t.Errorf("Cleanup(missing) = %v, %v, %v", removed, leftovers, err)
		}
	})
}
