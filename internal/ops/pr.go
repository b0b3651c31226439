package ops

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/forge"
	"github.com/raphi011/fleet/internal/git"
)

var titleReplacer = strings.NewReplacer("/", " ", "_", " ")

// prTitle derives a PR title from a branch name: feat/add_login -> "feat add login"
func prTitle(branch string) string {
	return titleReplacer.Replace(branch)
}

// prBody renders commit subjects as a Markdown list, in the given order
func prBody(subjects []string) string {
	var b strings.Builder
	for _, s := range subjects {
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

func remoteRef(branch string) string {
	return git.Remote + "/" + branch
}

// remoteTips resolves origin/<branch> for each branch as the remote has it
// now. A real run fetches first and returns remote-tracking refs; dry-run
// peeks at the remote so no ref moves. missing names the first branch
// origin does not have.
func remoteTips(ctx context.Context, r fleet.Repository, dryRun bool, branches ...string) (revs []string, missing string, err error) {
	if !dryRun {
		if err := git.Fetch(ctx, r.Path); err != nil {
			return nil, "", err
		}
	}
	for _, b := range branches {
		rev, found := remoteRef(b), true
		if dryRun {
			rev, found, err = git.PeekRemote(ctx, r.Path, b)
			if err != nil {
				return nil, "", err
			}
		} else {
			found = git.RemoteBranchExists(ctx, r.Path, b)
		}
		if !found {
			return nil, b, nil
		}
		revs = append(revs, rev)
	}
	return revs, "", nil
}

// prRef prefers the URL since gh and glab both accept it
func prRef(res *forge.CreatePRResult) string {
	if res.URL != "" {
		return res.URL
	}
	return strconv.Itoa(res.Number)
}

// prCreate opens a PR from the current branch into p.Base and requests
// auto-merge. Auto-merge is best-effort: its failure is reported in the
// details of an OK result.
func prCreate(ctx context.Context, f forge.Forge, r fleet.Repository, p Params) Result {
	if r.Detached() {
		return skip(r.Name, "Detached HEAD")
	}
	if r.Branch == p.Base {
		return skip(r.Name, "on base branch %s", p.Base)
	}
	tips, missing, err := remoteTips(ctx, r, p.DryRun, p.Base)
	if err != nil {
		return fail(r.Name, err)
	}
	if missing != "" {
		return skip(r.Name, "no %s branch", remoteRef(missing))
	}
	subjects, err := git.CommitSubjects(ctx, r.Path, tips[0]+".."+r.Branch)
	if err != nil {
		return fail(r.Name, err)
	}
	if len(subjects) == 0 {
		return skip(r.Name, "no commits ahead of %s", remoteRef(p.Base))
	}

	params := forge.CreatePRParams{
		Title: prTitle(r.Branch),
		Body:  prBody(subjects),
		Base:  p.Base,
		Head:  r.Branch,
	}
	if p.DryRun {
		return dryRun(r.Name, "would open %q into %s (%d commits)", params.Title, p.Base, len(subjects))
	}

	created, err := f.CreatePR(ctx, r.Path, params)
	if errors.Is(err, forge.ErrPRExists) {
		return skip(r.Name, "PR already exists")
	}
	if err != nil {
		return fail(r.Name, err)
	}

	details := "Created " + prRef(created)
	if err := f.EnableAutoMerge(ctx, r.Path, prRef(created), p.Strategy, true); err != nil {
		details += "; " + err.Error()
	} else {
		details += fmt.Sprintf("; auto-merge (%s) enabled", p.Strategy)
	}
	return ok(r.Name, "%s", details)
}

// prMerge merges the open PR of the current branch. Several open PRs for
// one branch are ambiguous and fail without merging any of them.
func prMerge(ctx context.Context, f forge.Forge, r fleet.Repository, p Params) Result {
	if r.Detached() {
		return skip(r.Name, "Detached HEAD")
	}
	prs, err := f.OpenPRsForBranch(ctx, r.Path, r.Branch)
	if err != nil {
		return fail(r.Name, err)
	}
	switch len(prs) {
	case 0:
		return skip(r.Name, "no open PR for %s", r.Branch)
	case 1:
	default:
		numbers := make([]string, len(prs))
		for i, pr := range prs {
			numbers[i] = "#" + strconv.Itoa(pr.Number)
		}
		return fail(r.Name, fmt.Errorf("%d open PRs for %s (%s), merge one manually", len(prs), r.Branch, strings.Join(numbers, ", ")))
	}

	pr := prs[0]
	if p.DryRun {
		return dryRun(r.Name, "would %s #%d", p.Strategy, pr.Number)
	}
	if err := f.MergePR(ctx, r.Path, pr.Number, p.Strategy, true); err != nil {
		return fail(r.Name, err)
	}
	return ok(r.Name, "Merged #%d (%s)", pr.Number, p.Strategy)
}

// prDevToMain opens a release PR from dev into the default branch and
// requests auto-merge. dev is long-lived, so it is never deleted.
func prDevToMain(ctx context.Context, f forge.Forge, r fleet.Repository, p Params) Result {
	dev, target := fleet.DevBranch, r.DefaultBranch
	tips, missing, err := remoteTips(ctx, r, p.DryRun, dev, target)
	if err != nil {
		return fail(r.Name, err)
	}
	if missing != "" {
		return skip(r.Name, "no %s branch", remoteRef(missing))
	}
	subjects, err := git.CommitSubjects(ctx, r.Path, tips[1]+".."+tips[0])
	if err != nil {
		return fail(r.Name, err)
	}
	if len(subjects) == 0 {
		return skip(r.Name, "%s has no commits ahead of %s", dev, target)
	}

	params := forge.CreatePRParams{
		Title: fmt.Sprintf("Merge %s into %s", dev, target),
		Body:  fmt.Sprintf("%d commit(s):\n\n%s", len(subjects), prBody(subjects)),
		Base:  target,
		Head:  dev,
	}
	if p.DryRun {
		return dryRun(r.Name, "would open %q (%d commits)", params.Title, len(subjects))
	}

	created, err := f.CreatePR(ctx, r.Path, params)
	if errors.Is(err, forge.ErrPRExists) {
		return skip(r.Name, "PR already exists")
	}
	if err != nil {
		return fail(r.Name, err)
	}

	details := "Created " + prRef(created)
	if err := f.EnableAutoMerge(ctx, r.Path, prRef(created), p.Strategy, false); err != nil {
		details += "; " + err.Error()
	} else {
		details += fmt.Sprintf("; auto-merge (%s) enabled", p.Strategy)
	}
	return ok(r.Name, "%s", details)
}
