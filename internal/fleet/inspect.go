package fleet

import (
	"context"

	"github.com/raphi011/fleet/internal/git"
	"github.com/raphi011/fleet/internal/log"
)

// DevBranch is the long-lived integration branch name
const DevBranch = "dev"

// Repository is the state of one fleet repository for one inspection pass.
// It is never updated after Inspect returns.
type Repository struct {
	Name          string `json:"name" yaml:"name"`
	Path          string `json:"path" yaml:"path"`
	Branch        string `json:"branch" yaml:"branch"`
	Dirty         bool   `json:"dirty" yaml:"dirty"`
	DefaultBranch string `json:"default_branch" yaml:"default_branch"`
	HasDev        bool   `json:"has_dev" yaml:"has_dev"`
	Upstream      string `json:"upstream,omitempty" yaml:"upstream,omitempty"`
	Ahead         int    `json:"ahead" yaml:"ahead"`
	Behind        int    `json:"behind" yaml:"behind"`

	// Err is set when inspection failed; the other state fields are then
	// not meaningful and Branch is git.Detached.
	Err error `json:"-" yaml:"-"`
}

// Detached reports whether HEAD is not on a branch
func (r Repository) Detached() bool {
	return r.Branch == git.Detached
}

// HasUpstream reports whether the current branch tracks a remote branch
func (r Repository) HasUpstream() bool {
	return r.Upstream != ""
}

// Inspect reads the branch and sync state of one repository. It never
// fails: an inspection error yields a degraded record with Err set.
func Inspect(ctx context.Context, repo Repo) Repository {
	state, err := inspect(ctx, repo)
	if err != nil {
		log.FromContext(ctx).Debug("inspect failed", "repo", repo.Name, "err", err)
		return Repository{Name: repo.Name, Path: repo.Path, Branch: git.Detached, Err: err}
	}
	return state
}

func inspect(ctx context.Context, repo Repo) (Repository, error) {
	r := Repository{Name: repo.Name, Path: repo.Path}

	branch, err := git.CurrentBranch(ctx, repo.Path)
	if err != nil {
		return r, err
	}
	r.Branch = branch

	if r.Dirty, err = git.IsDirty(ctx, repo.Path); err != nil {
		return r, err
	}

	r.DefaultBranch = DefaultBranch(ctx, repo.Path)
	r.HasDev = git.LocalBranchExists(ctx, repo.Path, DevBranch)

	if !r.Detached() {
		r.Upstream = git.Upstream(ctx, repo.Path)
	}
	if r.HasUpstream() {
		if r.Ahead, r.Behind, err = git.AheadBehind(ctx, repo.Path); err != nil {
			return r, err
		}
	}
	return r, nil
}

// branchResolver returns a default-branch candidate or "" when it has none
type branchResolver func(ctx context.Context, dir string) string

// defaultBranchResolvers are evaluated in order; the first non-empty
// result wins. The last entry always answers.
var defaultBranchResolvers = []branchResolver{
	localBranch("main"),
	localBranch("master"),
	git.RemoteHead,
	remoteBranch("main"),
	remoteBranch("master"),
	literal("main"),
}

// DefaultBranch resolves the repository's main-line branch name
func DefaultBranch(ctx context.Context, dir string) string {
	for _, resolve := range defaultBranchResolvers {
		if name := resolve(ctx, dir); name != "" {
			return name
		}
	}
	return ""
}

func localBranch(name string) branchResolver {
	return func(ctx context.Context, dir string) string {
		if git.LocalBranchExists(ctx, dir, name) {
			return name
		}
		return ""
	}
}

func remoteBranch(name string) branchResolver {
	return func(ctx context.Context, dir string) string {
		if git.RemoteBranchExists(ctx, dir, name) {
			return name
		}
		return ""
	}
}

func literal(name string) branchResolver {
	return func(context.Context, string) string { return name }
}
