package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/raphi011/fleet/internal/cmd"
)

// GitLab implements Forge for GitLab repositories using the glab CLI.
type GitLab struct{}

// Name returns "gitlab"
func (g *GitLab) Name() string {
	return "gitlab"
}

// CreatePR creates a new MR using glab CLI
func (g *GitLab) CreatePR(ctx context.Context, dir string, params CreatePRParams) (*CreatePRResult, error) {
	args := []string{"mr", "create",
		"--title", params.Title,
		"--description", params.Body,
		"--yes",
	}
	if params.Base != "" {
		args = append(args, "--target-branch", params.Base)
	}
	if params.Head != "" {
		args = append(args, "--source-branch", params.Head)
	}

	out, err := cmd.OutputContext(ctx, dir, "glab", args...)
	if err != nil {
		return nil, classifyCreateError("glab mr", err)
	}

	mrURL := lastURL(string(out))
	if mrURL == "" {
		return nil, fmt.Errorf("glab mr create returned no URL: %q", strings.TrimSpace(string(out)))
	}
	return &CreatePRResult{Number: numberFromURL(mrURL), URL: mrURL}, nil
}

// EnableAutoMerge sets the MR to merge when the pipeline succeeds
func (g *GitLab) EnableAutoMerge(ctx context.Context, dir, ref string, strategy MergeStrategy, deleteBranch bool) error {
	args := append([]string{"mr", "merge", ref, "--yes", "--auto-merge"}, glabMergeFlags(strategy, deleteBranch)...)
	if err := cmd.RunContext(ctx, dir, "glab", args...); err != nil {
		return fmt.Errorf("auto-merge failed: %w", err)
	}
	return nil
}

// OpenPRsForBranch lists opened MRs with the given source branch
func (g *GitLab) OpenPRsForBranch(ctx context.Context, dir, branch string) ([]OpenPR, error) {
	out, err := cmd.OutputContext(ctx, dir, "glab", "mr", "list",
		"--source-branch", branch,
		"-F", "json")
	if err != nil {
		return nil, fmt.Errorf("glab mr list failed: %w", err)
	}
	return parseGitLabMRList(out)
}

func parseGitLabMRList(out []byte) ([]OpenPR, error) {
	// glab returns an array of MRs
	var mrs []struct {
		IID    int    `json:"iid"`
		Title  string `json:"title"`
		State  string `json:"state"` // opened, merged, closed
		WebURL string `json:"web_url"`
	}
	if err := json.Unmarshal(out, &mrs); err != nil {
		return nil, fmt.Errorf("failed to parse glab output: %w", err)
	}
	var result []OpenPR
	for _, mr := range mrs {
		if !strings.EqualFold(mr.State, "opened") {
			continue
		}
		result = append(result, OpenPR{Number: mr.IID, Title: mr.Title, URL: mr.WebURL})
	}
	return result, nil
}

// MergePR merges an MR immediately
func (g *GitLab) MergePR(ctx context.Context, dir string, number int, strategy MergeStrategy, deleteBranch bool) error {
	args := append([]string{"mr", "merge", strconv.Itoa(number), "--yes", "--auto-merge=false"}, glabMergeFlags(strategy, deleteBranch)...)
	if err := cmd.RunContext(ctx, dir, "glab", args...); err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	return nil
}

// glabMergeFlags maps strategy to glab flags. Plain merge is glab's default.
func glabMergeFlags(strategy MergeStrategy, deleteBranch bool) []string {
	var flags []string
	switch strategy {
	case Squash:
		flags = append(flags, "--squash")
	case Rebase:
		flags = append(flags, "--rebase")
	}
	if deleteBranch {
		flags = append(flags, "--remove-source-branch")
	}
	return flags
}
