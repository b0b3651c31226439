package main

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/fleet/internal/config"
	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/git"
)

// completionContext returns a context carrying config, also during __complete
func completionContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	if ctx := rootCmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// completionFleet discovers the fleet for completions, ignoring errors
func completionFleet(cmd *cobra.Command) (context.Context, []fleet.Repo) {
	ctx := completionContext(cmd)
	root, err := resolveRoot(ctx)
	if err != nil {
		return ctx, nil
	}
	repos, err := fleet.Discover(ctx, root, config.FromContext(ctx).Exclude)
	if err != nil {
		return ctx, nil
	}
	return ctx, repos
}

// completeRepoNames completes -r with discovered repository names not
// already given.
func completeRepoNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	_, repos := completionFleet(cmd)
	given, _ := cmd.Flags().GetStringSlice("repo")

	var matches []string
	for _, name := range fleet.Names(repos) {
		if strings.HasPrefix(name, toComplete) && !slices.Contains(given, name) {
			matches = append(matches, name)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeHooks completes --hook with configured hook names.
func completeHooks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg := config.FromContext(completionContext(cmd))

	var matches []string
	for name, hook := range cfg.Hooks.Hooks {
		if strings.HasPrefix(name, toComplete) {
			if hook.Description != "" {
				name += "\t" + hook.Description
			}
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeWorktreeBranches completes the branches that have a linked
// worktree in any fleet repository.
func completeWorktreeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx, repos := completionFleet(cmd)

	seen := map[string]bool{}
	var matches []string
	for _, repo := range repos {
		wts, err := git.ListWorktrees(ctx, repo.Path)
		if err != nil {
			continue
		}
		// first entry is the main working tree
		for _, wt := range wts[min(1, len(wts)):] {
			b := wt.Branch
			if b == "" || b == git.Detached || seen[b] || !strings.HasPrefix(b, toComplete) {
				continue
			}
			seen[b] = true
			matches = append(matches, b)
		}
	}
	sort.Strings(matches)
	return matches, cobra.ShellCompDirectiveNoFileComp
}
