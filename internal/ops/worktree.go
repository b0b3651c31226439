package ops

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/git"
	"github.com/raphi011/fleet/internal/log"
	"github.com/raphi011/fleet/internal/worktree"
)

// worktreeAdd creates a linked worktree at path on p.Branch. A branch that
// does not exist yet is started from dev without tracking it.
func worktreeAdd(ctx context.Context, m *worktree.Manager, path string, r fleet.Repository, p Params) Result {
	if git.LocalBranchExists(ctx, r.Path, p.Branch) || git.RemoteBranchExists(ctx, r.Path, p.Branch) {
		if p.DryRun {
			return dryRun(r.Name, "would add %s on %s", path, p.Branch)
		}
		if err := git.AddWorktree(ctx, r.Path, path, p.Branch); err != nil {
			return fail(r.Name, err)
		}
		return ok(r.Name, "added %s%s", path, preserve(ctx, m, r, path))
	}

	if !r.HasDev {
		return skip(r.Name, "no dev branch to create from")
	}
	if p.DryRun {
		return dryRun(r.Name, "would add %s on new branch %s from %s", path, p.Branch, fleet.DevBranch)
	}

	if err := git.Fetch(ctx, r.Path, fleet.DevBranch); err != nil {
		return fail(r.Name, err)
	}
	start := fleet.DevBranch
	if git.RemoteBranchExists(ctx, r.Path, fleet.DevBranch) {
		start = remoteRef(fleet.DevBranch)
	}
	if err := git.AddWorktreeNewBranch(ctx, r.Path, path, p.Branch, start); err != nil {
		return fail(r.Name, err)
	}
	return ok(r.Name, "added %s, new branch from %s%s", path, start, preserve(ctx, m, r, path))
}

// preserve copies ignored local files into the new worktree and returns a
// details suffix. The worktree exists either way, so errors only warn.
func preserve(ctx context.Context, m *worktree.Manager, r fleet.Repository, path string) string {
	copied, err := m.PreserveFiles(ctx, r.Path, path)
	if err != nil {
		log.FromContext(ctx).Warnf("%s: preserve files: %v", r.Name, err)
		return ""
	}
	if len(copied) == 0 {
		return ""
	}
	return fmt.Sprintf(", preserved %d file(s)", len(copied))
}

// worktreeRemove force-removes the linked worktree at path
func worktreeRemove(ctx context.Context, path string, r fleet.Repository, p Params) Result {
	worktrees, err := git.ListWorktrees(ctx, r.Path)
	if err != nil {
		return fail(r.Name, err)
	}
	found := false
	for _, wt := range worktrees {
		if samePath(wt.Path, path) {
			found = true
			break
		}
	}
	if !found {
		return skip(r.Name, "no worktree at %s", path)
	}
	if p.DryRun {
		return dryRun(r.Name, "would remove %s", path)
	}

	if err := git.RemoveWorktree(ctx, r.Path, path, true); err != nil {
		return fail(r.Name, err)
	}
	return ok(r.Name, "removed %s", path)
}

// samePath compares paths after resolving symlinks (git reports resolved
// paths, e.g. /private/var on macOS).
func samePath(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}
