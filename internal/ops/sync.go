package ops

import (
	"context"

	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/git"
)

func pull(ctx context.Context, r fleet.Repository, p Params) Result {
	if r.Detached() {
		return skip(r.Name, "Detached HEAD")
	}
	if p.DryRun {
		return dryRun(r.Name, "would pull %s/%s", git.Remote, r.Branch)
	}

	updated, err := git.Pull(ctx, r.Path, r.Branch)
	if err != nil {
		return fail(r.Name, err)
	}
	if updated {
		return ok(r.Name, "Updated")
	}
	return ok(r.Name, "Already up to date")
}

func push(ctx context.Context, r fleet.Repository, p Params) Result {
	if r.Detached() {
		return skip(r.Name, "Detached HEAD")
	}
	if r.HasUpstream() && r.Ahead == 0 {
		return skip(r.Name, "Nothing to push (%s)", r.Branch)
	}
	setUpstream := !r.HasUpstream()
	if p.DryRun {
		if setUpstream {
			return dryRun(r.Name, "would push %s and set upstream", r.Branch)
		}
		return dryRun(r.Name, "would push %d commit(s) on %s", r.Ahead, r.Branch)
	}

	if err := git.Push(ctx, r.Path, r.Branch, setUpstream); err != nil {
		return fail(r.Name, err)
	}
	if setUpstream {
		return ok(r.Name, "Pushed %s, tracking %s/%s", r.Branch, git.Remote, r.Branch)
	}
	return ok(r.Name, "Pushed %d commit(s)", r.Ahead)
}
