package ops

import (
	"context"
	"fmt"

	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/git"
)

// createBranch creates p.Branch from an up-to-date dev.
// A failure after dev was synchronized leaves dev synchronized.
func createBranch(ctx context.Context, r fleet.Repository, p Params) Result {
	if !r.HasDev {
		return skip(r.Name, "no dev branch")
	}
	if git.LocalBranchExists(ctx, r.Path, p.Branch) {
		return skip(r.Name, "already exists")
	}
	if p.DryRun {
		return dryRun(r.Name, "would create %s from %s", p.Branch, fleet.DevBranch)
	}

	if err := git.Switch(ctx, r.Path, fleet.DevBranch); err != nil {
		return fail(r.Name, err)
	}
	if _, err := git.Pull(ctx, r.Path, fleet.DevBranch); err != nil {
		return fail(r.Name, fmt.Errorf("pull %s: %w", fleet.DevBranch, err))
	}
	if err := git.CreateBranch(ctx, r.Path, p.Branch); err != nil {
		return fail(r.Name, err)
	}
	return ok(r.Name, "created %s from %s", p.Branch, fleet.DevBranch)
}

// checkout switches to an existing local or remote-tracking branch
func checkout(ctx context.Context, r fleet.Repository, p Params) Result {
	if r.Dirty {
		return skip(r.Name, "uncommitted changes")
	}
	if !git.LocalBranchExists(ctx, r.Path, p.Branch) && !git.RemoteBranchExists(ctx, r.Path, p.Branch) {
		return skip(r.Name, "branch %s not found", p.Branch)
	}
	if p.DryRun {
		return dryRun(r.Name, "would switch to %s", p.Branch)
	}

	if err := git.Switch(ctx, r.Path, p.Branch); err != nil {
		return fail(r.Name, err)
	}
	return ok(r.Name, "switched to %s", p.Branch)
}
