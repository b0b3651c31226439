package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.BaseBranch != "dev" {
		t.Errorf("BaseBranch = %q, want %q", cfg.BaseBranch, "dev")
	}
	if cfg.MergeStrategy != "merge" {
		t.Errorf("MergeStrategy = %q, want %q", cfg.MergeStrategy, "merge")
	}
	if cfg.WorktreeFormat != DefaultWorktreeFormat {
		t.Errorf("WorktreeFormat = %q, want %q", cfg.WorktreeFormat, DefaultWorktreeFormat)
	}
	if cfg.ToolRepo != "fleet" {
		t.Errorf("ToolRepo = %q, want %q", cfg.ToolRepo, "fleet")
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	data := `
root = "/src/acme"
exclude = ["archive", "sandbox"]
base_branch = "develop"
merge_strategy = "squash"
shared_files = ["AGENTS.md"]

[preserve]
patterns = [".env", ".env.*"]
exclude = ["node_modules"]

[hosts]
"git.acme.dev" = "gitlab"

[hooks.tmux]
command = "tmux new-session -d -c {path}"
description = "Open tmux"
on = ["worktree-add"]
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Root != "/src/acme" {
		t.Errorf("Root = %q", cfg.Root)
	}
	if !reflect.DeepEqual(cfg.Exclude, []string{"archive", "sandbox"}) {
		t.Errorf("Exclude = %v", cfg.Exclude)
	}
	if cfg.BaseBranch != "develop" || cfg.MergeStrategy != "squash" {
		t.Errorf("BaseBranch/MergeStrategy = %q/%q", cfg.BaseBranch, cfg.MergeStrategy)
	}
	if !reflect.DeepEqual(cfg.SharedFiles, []string{"AGENTS.md"}) {
		t.Errorf("SharedFiles = %v", cfg.SharedFiles)
	}
	// unset values keep defaults
	if cfg.WorktreeFormat != DefaultWorktreeFormat || cfg.ToolRepo != DefaultToolRepo {
		t.Errorf("defaults not applied: format=%q tool=%q", cfg.WorktreeFormat, cfg.ToolRepo)
	}
	if !reflect.DeepEqual(cfg.Preserve.Patterns, []string{".env", ".env.*"}) || !reflect.DeepEqual(cfg.Preserve.Exclude, []string{"node_modules"}) {
		t.Errorf("Preserve = %+v", cfg.Preserve)
	}
	if cfg.Hosts["git.acme.dev"] != "gitlab" {
		t.Errorf("Hosts = %v", cfg.Hosts)
	}
	hook, ok := cfg.Hooks.Hooks["tmux"]
	if !ok {
		t.Fatalf("hook tmux missing: %v", cfg.Hooks.Hooks)
	}
	if hook.Command != "tmux new-session -d -c {path}" || !reflect.DeepEqual(hook.On, []string{"worktree-add"}) {
		t.Errorf("hook = %+v", hook)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"bad toml", `root = `, "failed to parse"},
		{"relative root", `root = "src"`, "root must be absolute"},
		{"bad strategy", `merge_strategy = "octopus"`, "invalid merge_strategy"},
		{"bad host forge", "[hosts]\n\"x.dev\" = \"bitbucket\"", "invalid forge type"},
		{"format without branch", `worktree_format = "{root}-wt"`, "must contain {branch}"},
		{"format unknown placeholder", `worktree_format = "{repo}-{branch}"`, "unknown placeholder"},
		{"shared file with dir", `shared_files = ["docs/AGENTS.md"]`, "plain file name"},
		{"format with path", `worktree_format = "wt/{branch}"`, "must be a folder name"},
		{"unknown theme", `theme = "solarized"`, "invalid theme"},
		{"bad preserve glob", "[preserve]\npatterns = [\"[.env\"]", "invalid preserve.patterns[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatalf("Parse(%q) = nil error, want %q", tt.data, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse error = %q, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_ExpandsHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	cfg, err := Parse([]byte(`root = "~/src"`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if want := filepath.Join(home, "src"); cfg.Root != want {
		t.Errorf("Root = %q, want %q", cfg.Root, want)
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Setenv("FLEET_ROOT", "")
		cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if !reflect.DeepEqual(cfg, Default()) {
			t.Errorf("LoadFile() = %+v, want defaults", cfg)
		}
	})

	t.Run("FLEET_ROOT overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(`root = "/from/file"`), 0o644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("FLEET_ROOT", "/from/env")
		cfg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if cfg.Root != "/from/env" {
			t.Errorf("Root = %q, want %q", cfg.Root, "/from/env")
		}
	})

	t.Run("relative FLEET_ROOT rejected", func(t *testing.T) {
		t.Setenv("FLEET_ROOT", "relative/dir")
		if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("LoadFile() = nil error, want error for relative FLEET_ROOT")
		}
	})
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"~/src", false},
		{"/abs/src", false},
		{".", true},
		{"../src", true},
	}
	for _, tt := range tests {
		if err := ValidatePath(tt.path, "root"); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Root = "/src"
	ctx := WithWorkDir(WithConfig(context.Background(), &cfg), "/work")

	if got := FromContext(ctx); got != &cfg {
		t.Error("FromContext did not return the stored config")
	}
	if got := WorkDirFromContext(ctx); got != "/work" {
		t.Errorf("WorkDirFromContext = %q", got)
	}
	if got := FromContext(context.Background()); got.BaseBranch != DefaultBaseBranch {
		t.Errorf("fallback config BaseBranch = %q", got.BaseBranch)
	}
}
