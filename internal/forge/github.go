package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/raphi011/fleet/internal/cmd"
)

// GitHub implements Forge for GitHub repositories using the gh CLI.
type GitHub struct{}

// Name returns "github"
func (g *GitHub) Name() string {
	return "github"
}

// CreatePR creates a new PR using gh CLI
func (g *GitHub) CreatePR(ctx context.Context, dir string, params CreatePRParams) (*CreatePRResult, error) {
	args := []string{"pr", "create",
		"--title", params.Title,
		"--body", params.Body,
	}
	if params.Base != "" {
		args = append(args, "--base", params.Base)
	}
	if params.Head != "" {
		args = append(args, "--head", params.Head)
	}

	out, err := cmd.OutputContext(ctx, dir, "gh", args...)
	if err != nil {
		return nil, classifyCreateError("gh pr", err)
	}

	// gh pr create prints the PR URL
	prURL := lastURL(string(out))
	if prURL == "" {
		return nil, fmt.Errorf("gh pr create returned no URL: %q", strings.TrimSpace(string(out)))
	}
	return &CreatePRResult{Number: numberFromURL(prURL), URL: prURL}, nil
}

// EnableAutoMerge turns on auto-merge via gh pr merge --auto
func (g *GitHub) EnableAutoMerge(ctx context.Context, dir, ref string, strategy MergeStrategy, deleteBranch bool) error {
	args := append([]string{"pr", "merge", ref, "--auto"}, ghMergeFlags(strategy, deleteBranch)...)
	if err := cmd.RunContext(ctx, dir, "gh", args...); err != nil {
		return fmt.Errorf("auto-merge failed: %w", err)
	}
	return nil
}

// OpenPRsForBranch lists open PRs with head branch using gh CLI
func (g *GitHub) OpenPRsForBranch(ctx context.Context, dir, branch string) ([]OpenPR, error) {
	out, err := cmd.OutputContext(ctx, dir, "gh", "pr", "list",
		"--head", branch,
		"--state", "open",
		"--json", "number,title,url")
	if err != nil {
		return nil, fmt.Errorf("gh pr list failed: %w", err)
	}
	return parseGitHubPRList(out)
}

func parseGitHubPRList(out []byte) ([]OpenPR, error) {
	var prs []struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		URL    string `json:"url"`
	}
	if err := json.Unmarshal(out, &prs); err != nil {
		return nil, fmt.Errorf("failed to parse gh output: %w", err)
	}
	result := make([]OpenPR, 0, len(prs))
	for _, pr := range prs {
		result = append(result, OpenPR{Number: pr.Number, Title: pr.Title, URL: pr.URL})
	}
	return result, nil
}

// MergePR merges a PR by number with the given strategy
func (g *GitHub) MergePR(ctx context.Context, dir string, number int, strategy MergeStrategy, deleteBranch bool) error {
	args := append([]string{"pr", "merge", strconv.Itoa(number)}, ghMergeFlags(strategy, deleteBranch)...)
	if err := cmd.RunContext(ctx, dir, "gh", args...); err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	return nil
}

func ghMergeFlags(strategy MergeStrategy, deleteBranch bool) []string {
	flags := []string{"--merge"}
	switch strategy {
	case Squash:
		flags = []string{"--squash"}
	case Rebase:
		flags = []string{"--rebase"}
	}
	if deleteBranch {
		flags = append(flags, "--delete-branch")
	}
	return flags
}
