package main

import (
	"bytes"
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/raphi011/fleet/internal/config"
	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/gittest"
	"github.com/raphi011/fleet/internal/log"
	"github.com/raphi011/fleet/internal/ops"
	"github.com/raphi011/fleet/internal/output"
	"github.com/raphi011/fleet/internal/ui/prompt"
)

// resetFlags restores the global flags after a test. Tests touching them
// cannot run in parallel.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		verbose, quiet, dryRun = false, false, false
		rootDir = ""
		repoFilter = nil
		outputFormat = "table"
	})
	outputFormat = "table"
}

type testEnv struct {
	ctx    context.Context
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(cfg config.Config, workDir string) testEnv {
	var stdout, stderr bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&stderr, false, false))
	ctx = output.WithPrinter(ctx, output.Plain(&stdout))
	ctx = config.WithConfig(ctx, &cfg)
	ctx = config.WithWorkDir(ctx, workDir)
	return testEnv{ctx: ctx, stdout: &stdout, stderr: &stderr}
}

func newFleet(t *testing.T, names ...string) string {
	t.Helper()
	root := filepath.Join(gittest.TempDir(t), "acme")
	gittest.WriteFile(t, root, ".keep", "")
	for _, name := range names {
		gittest.NewRepoWithDev(t, root, name)
	}
	return root
}

func TestResolveRoot(t *testing.T) {
	resetFlags(t)

	cfg := config.Default()
	env := newTestEnv(cfg, "/work/dir")
	got, err := resolveRoot(env.ctx)
	if err != nil || got != "/work/dir" {
		t.Errorf("resolveRoot() fallback = %q, %v, want /work/dir", got, err)
	}

	cfg.Root = "/from/config"
	env = newTestEnv(cfg, "/work/dir")
	if got, _ := resolveRoot(env.ctx); got != "/from/config" {
		t.Errorf("resolveRoot() config = %q, want /from/config", got)
	}

	rootDir = "/from/flag"
	if got, _ := resolveRoot(env.ctx); got != "/from/flag" {
		t.Errorf("resolveRoot() flag = %q, want /from/flag", got)
	}
}

func TestRunOperation_Status(t *testing.T) {
	resetFlags(t)
	root := newFleet(t, "web", "api")
	env := newTestEnv(config.Default(), root)

	results, err := runOperation(env.ctx, ops.Status, ops.Params{})
	if err != nil {
		t.Fatalf("runOperation() error = %v", err)
	}
	if len(results) != 2 || results[0].Repo != "api" || results[1].Repo != "web" {
		t.Fatalf("results = %+v, want api then web", results)
	}

	out := env.stdout.String()
	if strings.Index(out, "api") > strings.Index(out, "web") {
		t.Errorf("report rows out of order:\n%s", out)
	}
	if !strings.HasSuffix(out, "2 ok\n") {
		t.Errorf("report should end with summary:\n%s", out)
	}
}

func TestRunOperation_FilterWarnsWithSuggestion(t *testing.T) {
	resetFlags(t)
	root := newFleet(t, "api", "web")
	env := newTestEnv(config.Default(), root)
	repoFilter = []string{"web", "apii"}

	results, err := runOperation(env.ctx, ops.Status, ops.Params{})
	if err != nil {
		t.Fatalf("runOperation() error = %v", err)
	}
	if len(results) != 1 || results[0].Repo != "web" {
		t.Errorf("results = %+v, want only web", results)
	}
	if !strings.Contains(env.stderr.String(), `did you mean: api?`) {
		t.Errorf("stderr = %q, want suggestion for api", env.stderr.String())
	}
}

func TestRunOperation_JSONOutput(t *testing.T) {
	resetFlags(t)
	root := newFleet(t, "api")
	env := newTestEnv(config.Default(), root)
	outputFormat = "json"

	if _, err := runOperation(env.ctx, ops.Push, ops.Params{}); err != nil {
		t.Fatalf("runOperation() error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), `"details": "Nothing to push (dev)"`) {
		t.Errorf("stdout = %s", env.stdout.String())
	}
}

func TestRunOperation_FatalBeforeDiscovery(t *testing.T) {
	tests := []struct {
		name   string
		op     ops.Operation
		params ops.Params
		format string
	}{
		{"unknown output format", ops.Status, ops.Params{}, "xml"},
		{"invalid strategy", ops.PrMerge, ops.Params{Strategy: "fast-forward"}, "table"},
		{"missing branch", ops.Checkout, ops.Params{}, "table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			// a root that does not exist proves discovery never ran
			rootDir = filepath.Join(gittest.TempDir(t), "missing")
			outputFormat = tt.format
			env := newTestEnv(config.Default(), "")

			results, err := runOperation(env.ctx, tt.op, tt.params)
			if err == nil {
				t.Fatal("runOperation() = nil error, want fatal")
			}
			if strings.Contains(err.Error(), "fleet root") {
				t.Errorf("error = %v, want validation before discovery", err)
			}
			if results != nil || env.stdout.Len() != 0 {
				t.Errorf("fatal error still produced a report: %q", env.stdout.String())
			}
		})
	}
}

func TestRunOperation_MissingRoot(t *testing.T) {
	resetFlags(t)
	rootDir = filepath.Join(gittest.TempDir(t), "missing")
	env := newTestEnv(config.Default(), "")

	if _, err := runOperation(env.ctx, ops.Status, ops.Params{}); err == nil {
		t.Error("runOperation() with missing root = nil error")
	}
}

func TestStrategyOrDefault(t *testing.T) {
	cfg := config.Default()
	cfg.MergeStrategy = "squash"
	env := newTestEnv(cfg, "")

	if got := strategyOrDefault(env.ctx, ""); got != "squash" {
		t.Errorf("strategyOrDefault(\"\") = %q, want squash", got)
	}
	if got := strategyOrDefault(env.ctx, "rebase"); got != "rebase" {
		t.Errorf("strategyOrDefault(rebase) = %q", got)
	}
}

func TestCommands_RequireBranchName(t *testing.T) {
	t.Parallel()

	for _, cmd := range []func() *cobra.Command{newBranchCmd, newCheckoutCmd, newWorktreeAddCmd, newWorktreeRemoveCmd} {
		c := cmd()
		c.SetArgs([]string{})
		c.SetOut(&bytes.Buffer{})
		c.SetErr(&bytes.Buffer{})
		if err := c.Execute(); err == nil {
			t.Errorf("%s without a name = nil error", c.Name())
		}
	}
}

func TestRemovalItems(t *testing.T) {
	resetFlags(t)
	root := newFleet(t, "api", "web", "docs")
	env := newTestEnv(config.Default(), root)

	inv, err := prepare(env.ctx)
	if err != nil {
		t.Fatalf("prepare() error = %v", err)
	}
	// docs gets no worktree
	onlyTwo, _ := fleet.Filter(inv.repos, []string{"api", "web"})
	if _, err := inv.engine.Run(env.ctx, ops.WorktreeAdd, onlyTwo, ops.Params{Branch: "feat/z"}); err != nil {
		t.Fatalf("worktree-add error = %v", err)
	}
	wtRoot := inv.engine.Worktrees.RootPath("feat/z")
	gittest.WriteFile(t, filepath.Join(wtRoot, "web"), "wip.txt", "wip")

	got := removalItems(env.ctx, inv, wtRoot)
	want := []prompt.Item{{Name: "api"}, {Name: "web", Warning: "uncommitted changes"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("removalItems() = %+v, want %+v", got, want)
	}
}
