package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/git"
	"github.com/raphi011/fleet/internal/gittest"
	"github.com/raphi011/fleet/internal/worktree"
)

// worktreeFleet builds acme/{api,web,legacy}: api already has feat/x,
// web only has dev, legacy has neither.
func worktreeFleet(t *testing.T) (tmp, root string, e *Engine) {
	t.Helper()
	tmp = gittest.TempDir(t)
	root = newFleetRoot(t, tmp)

	api := gittest.NewRepoWithDev(t, root, "api")
	gittest.Git(t, api.Path, "branch", "feat/x")
	gittest.NewRepoWithDev(t, root, "web")
	gittest.NewRepo(t, root, "legacy")
	gittest.WriteFile(t, root, "AGENTS.md", "# shared")

	e = &Engine{Worktrees: &worktree.Manager{
		FleetRoot:   root,
		Format:      "{root}-{branch}",
		SharedFiles: []string{"AGENTS.md"},
	}}
	return tmp, root, e
}

func TestWorktreeAdd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tmp, root, e := worktreeFleet(t)
	wtRoot := filepath.Join(tmp, "acme-feat-x")

	results, err := e.Run(ctx, WorktreeAdd, discover(t, root), Params{Branch: "feat/x"})
	require.NoError(t, err)
	got := byRepo(results)

	assert.Equal(t, StatusOK, got["api"].Status)
	assert.Equal(t, "added "+filepath.Join(wtRoot, "api"), got["api"].Details)
	assert.Equal(t, StatusOK, got["web"].Status)
	assert.Equal(t, "added "+filepath.Join(wtRoot, "web")+", new branch from origin/dev", got["web"].Details)
	assert.Equal(t, StatusSkip, got["legacy"].Status)
	assert.Equal(t, "no dev branch to create from", got["legacy"].Details)

	for _, repo := range []string{"api", "web"} {
		branch, err := git.CurrentBranch(ctx, filepath.Join(wtRoot, repo))
		require.NoError(t, err)
		assert.Equal(t, "feat/x", branch, repo)
	}
	// new branches don't track dev
	assert.Empty(t, git.Upstream(ctx, filepath.Join(wtRoot, "web")))

	data, err := os.ReadFile(filepath.Join(wtRoot, "AGENTS.md"))
	require.NoError(t, err)
	assert.Equal(t, "# shared", string(data))

	// an existing root aborts before any repository is touched
	results, err = e.Run(ctx, WorktreeAdd, discover(t, root), Params{Branch: "feat/x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Nil(t, results)
}

func TestWorktreeAdd_DryRun(t *testing.T) {
	t.Parallel()
	tmp, root, e := worktreeFleet(t)

	results, err := e.Run(context.Background(), WorktreeAdd, discover(t, root), Params{Branch: "feat/x", DryRun: true})
	require.NoError(t, err)
	got := byRepo(results)

	assert.Equal(t, StatusDryRun, got["api"].Status)
	assert.Equal(t, StatusDryRun, got["web"].Status)
	assert.Equal(t, StatusSkip, got["legacy"].Status)

	_, statErr := os.Stat(filepath.Join(tmp, "acme-feat-x"))
	assert.True(t, os.IsNotExist(statErr), "dry-run created the worktree root")
	assert.False(t, gittest.BranchExists(filepath.Join(root, "web"), "feat/x"))
}

func TestWorktreeRemove(t *testing.T) {
	t.Parallel()
	ctx, logs := logContext()
	tmp, root, e := worktreeFleet(t)
	wtRoot := filepath.Join(tmp, "acme-feat-x")

	_, err := e.Run(ctx, WorktreeAdd, discover(t, root), Params{Branch: "feat/x"})
	require.NoError(t, err)
	// uncommitted work does not block removal
	gittest.WriteFile(t, filepath.Join(wtRoot, "web"), "wip.txt", "wip")

	results, err := e.Run(ctx, WorktreeRemove, discover(t, root), Params{Branch: "feat/x"})
	require.NoError(t, err)
	got := byRepo(results)

	assert.Equal(t, StatusOK, got["api"].Status)
	assert.Equal(t, StatusOK, got["web"].Status)
	assert.Equal(t, StatusSkip, got["legacy"].Status)
	assert.Equal(t, "no worktree at "+filepath.Join(wtRoot, "legacy"), got["legacy"].Details)

	_, statErr := os.Stat(wtRoot)
	assert.True(t, os.IsNotExist(statErr), "root with only shared files should be deleted")
	assert.Contains(t, logs.String(), "Removed "+wtRoot)

	// the branches survive, only the worktrees are gone
	assert.True(t, gittest.BranchExists(filepath.Join(root, "web"), "feat/x"))
}

func TestWorktreeRemove_KeepsForeignFiles(t *testing.T) {
	t.Parallel()
	ctx, logs := logContext()
	tmp, root, e := worktreeFleet(t)
	wtRoot := filepath.Join(tmp, "acme-feat-x")

	_, err := e.Run(ctx, WorktreeAdd, discover(t, root), Params{Branch: "feat/x"})
	require.NoError(t, err)
	gittest.WriteFile(t, wtRoot, "notes.txt", "keep me")

	results, err := e.Run(ctx, WorktreeRemove, discover(t, root), Params{Branch: "feat/x"})
	require.NoError(t, err)
	assert.Equal(t, StatusOK, byRepo(results)["api"].Status)

	data, err := os.ReadFile(filepath.Join(wtRoot, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
	_, statErr := os.Stat(filepath.Join(wtRoot, "api"))
	assert.True(t, os.IsNotExist(statErr), "linked worktree should be removed")
	assert.Contains(t, logs.String(), "Warning: kept "+wtRoot+", it still contains: notes.txt")
}

func TestWorktreeRemove_DryRun(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tmp, root, e := worktreeFleet(t)
	wtRoot := filepath.Join(tmp, "acme-feat-x")

	_, err := e.Run(ctx, WorktreeAdd, discover(t, root), Params{Branch: "feat/x"})
	require.NoError(t, err)

	results, err := e.Run(ctx, WorktreeRemove, discover(t, root), Params{Branch: "feat/x", DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, StatusDryRun, byRepo(results)["api"].Status)

	_, statErr := os.Stat(filepath.Join(wtRoot, "api"))
	assert.NoError(t, statErr)
}

func TestWorktreeAdd_PreservesIgnoredFiles(t *testing.T) {
	t.Parallel()
	tmp := gittest.TempDir(t)
	root := newFleetRoot(t, tmp)

	api := gittest.NewRepoWithDev(t, root, "api")
	gittest.WriteFile(t, api.Path, ".gitignore", ".env\nnode_modules/\n")
	gittest.Git(t, api.Path, "add", ".gitignore")
	gittest.Git(t, api.Path, "commit", "--quiet", "-m", "Ignore env")
	gittest.WriteFile(t, api.Path, ".env", "TOKEN=local\n")
	gittest.WriteFile(t, api.Path, "node_modules/pkg/.env", "nested\n")

	e := &Engine{Worktrees: &worktree.Manager{
		FleetRoot:        root,
		Format:           "{root}-{branch}",
		PreservePatterns: []string{".env"},
		PreserveExclude:  []string{"node_modules"},
	}}
	results, err := e.Run(context.Background(), WorktreeAdd, discover(t, root), Params{Branch: "feat/env"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, StatusOK, results[0].Status)
	assert.Contains(t, results[0].Details, "preserved 1 file(s)")

	linked := filepath.Join(tmp, "acme-feat-env", "api")
	data, err := os.ReadFile(filepath.Join(linked, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "TOKEN=local\n", string(data))
	assert.NoFileExists(t, filepath.Join(linked, "node_modules", "pkg", ".env"))
}

func TestWorktreeRemove_KeepsToolRepoWorktree(t *testing.T) {
	t.Parallel()
	ctx, logs := logContext()
	tmp := gittest.TempDir(t)
	root := newFleetRoot(t, tmp)
	gittest.NewRepoWithDev(t, root, "api")
	gittest.NewRepoWithDev(t, root, "fleet")
	binary := filepath.Join(tmp, "bin", "fleet")
	gittest.WriteFile(t, filepath.Dir(binary), "fleet", "#!/bin/sh\n")

	e := &Engine{Worktrees: &worktree.Manager{
		FleetRoot:  root,
		Format:     "{root}-{branch}",
		ToolRepo:   "fleet",
		ToolBinary: binary,
	}}
	wtRoot := filepath.Join(tmp, "acme-feat-y")

	_, err := e.Run(ctx, WorktreeAdd, discover(t, root), Params{Branch: "feat/y"})
	require.NoError(t, err)
	gittest.WriteFile(t, filepath.Join(wtRoot, "fleet"), "wip.txt", "uncommitted")

	// only api is removed; the fleet worktree stays in the root
	onlyAPI, _ := fleet.Filter(discover(t, root), []string{"api"})
	results, err := e.Run(ctx, WorktreeRemove, onlyAPI, Params{Branch: "feat/y"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, StatusOK, results[0].Status)

	data, err := os.ReadFile(filepath.Join(wtRoot, "fleet", "wip.txt"))
	require.NoError(t, err)
	assert.Equal(t, "uncommitted", string(data))
	assert.NotContains(t, logs.String(), "Removed "+wtRoot)
	assert.Contains(t, logs.String(), "Warning: kept "+wtRoot+", it still contains: fleet")
}
