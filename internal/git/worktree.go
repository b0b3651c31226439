package git

import (
	"context"
	"fmt"
	"strings"
)

// WorktreeInfo is one entry of git worktree list.
type WorktreeInfo struct {
	Path   string
	Branch string // Detached when HEAD is not on a branch
}

// ListWorktrees returns all worktrees registered in a repository, the main
// working tree first, using git worktree list --porcelain.
func ListWorktrees(ctx context.Context, repoPath string) ([]WorktreeInfo, error) {
	output, err := outputGit(ctx, repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %v", err)
	}
	return parseWorktreeList(string(output)), nil
}

func parseWorktreeList(output string) []WorktreeInfo {
	var worktrees []WorktreeInfo
	var current WorktreeInfo

	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			if current.Path != "" {
				worktrees = append(worktrees, current)
			}
			current = WorktreeInfo{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "branch refs/heads/"):
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "detached":
			current.Branch = Detached
		}
	}

	if current.Path != "" {
		worktrees = append(worktrees, current)
	}
	return worktrees
}

// AddWorktree creates a linked worktree at path checked out to an existing
// branch. A branch that only exists on origin is created tracking it.
func AddWorktree(ctx context.Context, repoPath, path, branch string) error {
	if err := runGit(ctx, repoPath, "worktree", "add", path, branch); err != nil {
		return fmt.Errorf("failed to create worktree: %v", err)
	}
	return nil
}

// AddWorktreeNewBranch creates a linked worktree at path on a new branch
// started from startPoint. The new branch does not track startPoint.
func AddWorktreeNewBranch(ctx context.Context, repoPath, path, branch, startPoint string) error {
	if err := runGit(ctx, repoPath, "worktree", "add", "--no-track", "-b", branch, path, startPoint); err != nil {
		return fmt.Errorf("failed to create worktree: %v", err)
	}
	return nil
}

// RemoveWorktree removes a linked worktree
func RemoveWorktree(ctx context.Context, repoPath, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if err := runGit(ctx, repoPath, args...); err != nil {
		return fmt.Errorf("failed to remove worktree: %v", err)
	}
	return nil
}
