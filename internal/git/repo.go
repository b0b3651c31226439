package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Detached is reported as the current branch when HEAD is not on a branch
const Detached = "(detached)"

// Remote is the remote every fleet operation synchronizes with
const Remote = "origin"

// CurrentBranch returns the current branch name.
// Returns Detached for detached HEAD state.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	branch, err := lineGit(ctx, dir, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %v", err)
	}
	if branch == "" {
		return Detached, nil
	}
	return branch, nil
}

// IsDirty returns true if the short status of the working tree is non-empty
func IsDirty(ctx context.Context, dir string) (bool, error) {
	out, err := lineGit(ctx, dir, "status", "--short")
	if err != nil {
		return false, fmt.Errorf("failed to get status: %v", err)
	}
	return out != "", nil
}

// LocalBranchExists checks if refs/heads/<branch> exists
func LocalBranchExists(ctx context.Context, dir, branch string) bool {
	return runGit(ctx, dir, "show-ref", "--verify", "--quiet", "refs/heads/"+branch) == nil
}

// RemoteBranchExists checks if the remote-tracking branch origin/<branch> exists
func RemoteBranchExists(ctx context.Context, dir, branch string) bool {
	return runGit(ctx, dir, "show-ref", "--verify", "--quiet", "refs/remotes/"+Remote+"/"+branch) == nil
}

// RemoteHead returns the branch origin/HEAD points to, or "" if it is not set
func RemoteHead(ctx context.Context, dir string) string {
	ref, err := lineGit(ctx, dir, "symbolic-ref", "--quiet", "refs/remotes/"+Remote+"/HEAD")
	if err != nil {
		return ""
	}
	// Output is like "refs/remotes/origin/main"
	return strings.TrimPrefix(ref, "refs/remotes/"+Remote+"/")
}

// Upstream returns the upstream of the current branch (e.g. "origin/dev"),
// or "" if none is configured
func Upstream(ctx context.Context, dir string) string {
	ref, err := lineGit(ctx, dir, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err != nil {
		return ""
	}
	return ref
}

// AheadBehind counts commits on HEAD but not its upstream (ahead) and the
// reverse (behind). Requires an upstream.
func AheadBehind(ctx context.Context, dir string) (ahead, behind int, err error) {
	out, err := lineGit(ctx, dir, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count commits: %v", err)
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	if ahead, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, fmt.Errorf("parse ahead count: %w", err)
	}
	if behind, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("parse behind count: %w", err)
	}
	return ahead, behind, nil
}

// CommitSubjects returns commit subject lines in a revision range,
// in the order git log returns them
func CommitSubjects(ctx context.Context, dir, revRange string) ([]string, error) {
	out, err := outputGit(ctx, dir, "log", "--format=%s", revRange)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %v", err)
	}
	var subjects []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			subjects = append(subjects, line)
		}
	}
	return subjects, nil
}

// Fetch fetches refs (or everything when none are given) from origin
func Fetch(ctx context.Context, dir string, refs ...string) error {
	args := append([]string{"fetch", "--quiet", Remote}, refs...)
	if err := runGit(ctx, dir, args...); err != nil {
		return fmt.Errorf("fetch %s: %v", Remote, err)
	}
	return nil
}

// Switch checks out an existing branch. A branch that only exists on
// origin is created tracking it.
func Switch(ctx context.Context, dir, branch string) error {
	return runGit(ctx, dir, "switch", branch)
}

// CreateBranch creates branch at HEAD and switches to it
func CreateBranch(ctx context.Context, dir, branch string) error {
	return runGit(ctx, dir, "switch", "-c", branch)
}

// Head returns the commit HEAD points to
func Head(ctx context.Context, dir string) (string, error) {
	rev, err := lineGit(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %v", err)
	}
	return rev, nil
}

// Pull integrates origin/<branch> into the current branch the way the
// user's pull configuration says (merge or rebase). updated reports whether
// HEAD moved.
func Pull(ctx context.Context, dir, branch string) (updated bool, err error) {
	before, err := Head(ctx, dir)
	if err != nil {
		return false, err
	}
	if err := runGit(ctx, dir, "pull", "--quiet", Remote, branch); err != nil {
		return false, err
	}
	after, err := Head(ctx, dir)
	if err != nil {
		return false, err
	}
	return before != after, nil
}

// PeekRemote returns the commit origin/<branch> currently points to on the
// remote and downloads its history, without updating any ref or FETCH_HEAD.
// found is false when origin has no such branch.
func PeekRemote(ctx context.Context, dir, branch string) (rev string, found bool, err error) {
	ref := "refs/heads/" + branch
	out, err := outputGit(ctx, dir, "ls-remote", "--heads", Remote, ref)
	if err != nil {
		return "", false, fmt.Errorf("ls-remote %s: %v", Remote, err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == ref {
			rev = fields[0]
			break
		}
	}
	if rev == "" {
		return "", false, nil
	}
	// an empty --refmap drops the configured refspecs, so nothing is stored
	if err := runGit(ctx, dir, "fetch", "--quiet", "--no-write-fetch-head", "--refmap=", Remote, ref); err != nil {
		return "", false, fmt.Errorf("fetch %s: %v", Remote, err)
	}
	return rev, true, nil
}

// Push publishes branch to origin, setting the upstream when setUpstream is true
func Push(ctx context.Context, dir, branch string, setUpstream bool) error {
	args := []string{"push", "--quiet"}
	if setUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, Remote, branch)
	return runGit(ctx, dir, args...)
}

// GetOriginURL gets the origin URL for a repository
func GetOriginURL(ctx context.Context, dir string) (string, error) {
	url, err := lineGit(ctx, dir, "remote", "get-url", Remote)
	if err != nil {
		return "", fmt.Errorf("failed to get origin URL: %v", err)
	}
	return url, nil
}
