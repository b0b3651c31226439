package forge

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrPRExists is returned by CreatePR when an open PR/MR already exists
// for the head branch.
var ErrPRExists = errors.New("pull request already exists")

// MergeStrategy selects how a PR/MR is merged.
type MergeStrategy string

const (
	Merge  MergeStrategy = "merge"
	Squash MergeStrategy = "squash"
	Rebase MergeStrategy = "rebase"
)

// ParseMergeStrategy parses "merge", "squash" or "rebase" (case-insensitive).
// An empty string yields Merge.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Merge:
		return Merge, nil
	case Squash:
		return Squash, nil
	case Rebase:
		return Rebase, nil
	}
	return "", fmt.Errorf("invalid merge strategy %q (valid: merge, squash, rebase)", s)
}

// CreatePRParams contains parameters for creating a PR/MR
type CreatePRParams struct {
	Title string
	Body  string
	Base  string // target branch
	Head  string // source branch
}

// CreatePRResult contains the result of creating a PR/MR
type CreatePRResult struct {
	Number int
	URL    string
}

// OpenPR represents a PR in a list of open PRs
type OpenPR struct {
	Number int
	Title  string
	URL    string
}

// Forge represents a git hosting service (GitHub, GitLab).
//
// Every method runs the hosting CLI inside dir so the CLI resolves the
// repository from its origin remote.
type Forge interface {
	// Name returns the forge name ("github" or "gitlab")
	Name() string

	// CreatePR creates a new PR/MR. Returns an error wrapping ErrPRExists
	// when one is already open for params.Head.
	CreatePR(ctx context.Context, dir string, params CreatePRParams) (*CreatePRResult, error)

	// EnableAutoMerge requests that the PR/MR identified by ref (number or
	// URL) is merged once its requirements pass.
	EnableAutoMerge(ctx context.Context, dir, ref string, strategy MergeStrategy, deleteBranch bool) error

	// OpenPRsForBranch lists open PRs/MRs whose head is branch
	OpenPRsForBranch(ctx context.Context, dir, branch string) ([]OpenPR, error)

	// MergePR merges a PR/MR by number
	MergePR(ctx context.Context, dir string, number int, strategy MergeStrategy, deleteBranch bool) error
}

// classifyCreateError maps "already exists" failures to ErrPRExists and keeps
// the CLI's text.
func classifyCreateError(tool string, err error) error {
	if strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("%w: %s", ErrPRExists, err.Error())
	}
	return fmt.Errorf("%s create failed: %w", tool, err)
}

// lastURL returns the last whitespace separated token starting with http.
// gh and glab print the new PR/MR URL after any progress output.
func lastURL(out string) string {
	fields := strings.Fields(out)
	for i := len(fields) - 1; i >= 0; i-- {
		if strings.HasPrefix(fields[i], "http://") || strings.HasPrefix(fields[i], "https://") {
			return fields[i]
		}
	}
	return ""
}

// numberFromURL extracts the trailing number of a PR/MR URL, e.g.
// https://github.com/org/repo/pull/123 -> 123. Returns 0 when absent.
func numberFromURL(u string) int {
	u = strings.TrimRight(u, "/")
	idx := strings.LastIndex(u, "/")
	var n int
	fmt.Sscanf(u[idx+1:], "%d", &n)
	return n
}
