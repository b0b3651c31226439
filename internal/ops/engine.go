package ops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/forge"
	"github.com/raphi011/fleet/internal/log"
	"github.com/raphi011/fleet/internal/worktree"
)

// ForgeFunc returns the forge hosting the repository at dir. An error fails
// that repository's row.
type ForgeFunc func(ctx context.Context, dir string) (forge.Forge, error)

// Engine dispatches operations over a fleet.
type Engine struct {
	Forges    ForgeFunc
	Worktrees *worktree.Manager // required for worktree-add/remove
	Progress  Progress          // optional
}

// Progress is told which repository Run is about to process. Stop may be
// called more than once.
type Progress interface {
	SetProgress(done int, repo string)
	Stop()
}

// Run validates params, then inspects and processes each repository in
// order. It returns one result per repository. The error is non-nil only
// for invalid invocations, a worktree root that already exists, or a
// cancelled context; in the latter case the results gathered so far are
// returned with it.
func (e *Engine) Run(ctx context.Context, op Operation, repos []fleet.Repo, p Params) ([]Result, error) {
	if err := p.Validate(op); err != nil {
		return nil, err
	}

	var root string
	switch op {
	case WorktreeAdd, WorktreeRemove:
		if e.Worktrees == nil {
			return nil, errors.New("worktree operations need a worktree manager")
		}
		root = e.Worktrees.RootPath(p.Branch)
		if op == WorktreeAdd {
			if _, err := os.Stat(root); err == nil {
				return nil, fmt.Errorf("worktree root %s already exists", root)
			}
		}
	case PrCreate, PrMerge, PrDevToMain:
		if e.Forges == nil {
			return nil, errors.New("pull request operations need a forge")
		}
	}

	l := log.FromContext(ctx)
	results := make([]Result, 0, len(repos))
	if e.Progress != nil {
		defer e.Progress.Stop()
	}
	for i, repo := range repos {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if e.Progress != nil {
			e.Progress.SetProgress(i, repo.Name)
		}

		state := fleet.Inspect(ctx, repo)
		var res Result
		if state.Err != nil {
			res = fail(repo.Name, state.Err)
		} else {
			res = e.execute(ctx, op, state, p, root)
		}
		res.Repo = repo.Name
		res.State = &state
		l.Debug("processed", "op", op, "repo", repo.Name, "status", res.Status)
		results = append(results, res)
	}

	if e.Progress != nil {
		e.Progress.Stop()
	}
	if p.DryRun {
		return results, nil
	}
	switch op {
	case WorktreeAdd:
		e.finalizeRoot(ctx, root, repos)
	case WorktreeRemove:
		e.cleanupRoot(ctx, root)
	}
	return results, nil
}

func (e *Engine) execute(ctx context.Context, op Operation, r fleet.Repository, p Params, root string) Result {
	switch op {
	case Status:
		return status(r)
	case Branch:
		return createBranch(ctx, r, p)
	case Checkout:
		return checkout(ctx, r, p)
	case Pull:
		return pull(ctx, r, p)
	case Push:
		return push(ctx, r, p)
	case PrCreate, PrMerge, PrDevToMain:
		f, err := e.Forges(ctx, r.Path)
		if err != nil {
			return fail(r.Name, err)
		}
		switch op {
		case PrCreate:
			return prCreate(ctx, f, r, p)
		case PrMerge:
			return prMerge(ctx, f, r, p)
		default:
			return prDevToMain(ctx, f, r, p)
		}
	case WorktreeAdd:
		return worktreeAdd(ctx, e.Worktrees, e.Worktrees.LinkedPath(root, r.Name), r, p)
	case WorktreeRemove:
		return worktreeRemove(ctx, e.Worktrees.LinkedPath(root, r.Name), r, p)
	}
	return fail(r.Name, fmt.Errorf("unknown operation %q", op))
}

// finalizeRoot copies auxiliary files into a root that at least one
// repository was added to. Failures are warnings, the worktrees exist.
func (e *Engine) finalizeRoot(ctx context.Context, root string, repos []fleet.Repo) {
	if _, err := os.Stat(root); err != nil {
		return
	}
	if err := e.Worktrees.Finalize(ctx, root, fleet.Names(repos)); err != nil {
		log.FromContext(ctx).Warnf("worktree root %s: %v", root, err)
	}
}

// cleanupRoot deletes the root unless it holds files fleet did not put there
func (e *Engine) cleanupRoot(ctx context.Context, root string) {
	l := log.FromContext(ctx)
	removed, leftovers, err := e.Worktrees.Cleanup(ctx, root)
	switch {
	case err != nil:
		l.Warnf("worktree root %s: %v", root, err)
	case len(leftovers) > 0:
		l.Warnf("kept %s, it still contains: %s", root, strings.Join(leftovers, ", "))
	case removed:
		l.Printf("Removed %s\n", root)
	}
}

func status(r fleet.Repository) Result {
	parts := []string{r.Branch}
	if r.Dirty {
		parts = append(parts, "dirty")
	}
	if r.HasUpstream() {
		parts = append(parts, fmt.Sprintf("↑%d ↓%d", r.Ahead, r.Behind))
	} else if !r.Detached() {
		parts = append(parts, "no upstream")
	}
	return ok(r.Name, "%s", strings.Join(parts, ", "))
}
