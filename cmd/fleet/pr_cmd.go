package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/fleet/internal/config"
	"github.com/raphi011/fleet/internal/ops"
)

func addStrategyFlag(cmd *cobra.Command, strategy *string) {
	cmd.Flags().StringVarP(strategy, "strategy", "s", "", "Merge strategy: merge, squash or rebase (default: config merge_strategy)")
	_ = cmd.RegisterFlagCompletionFunc("strategy", cobra.FixedCompletions(
		[]string{"merge", "squash", "rebase"}, cobra.ShellCompDirectiveNoFileComp))
}

func newPrCreateCmd() *cobra.Command {
	var (
		base     string
		strategy string
	)

	cmd := &cobra.Command{
		Use:     "pr-create",
		Short:   "Open a pull request for the current branch of every repository",
		GroupID: GroupPR,
		Args:    cobra.NoArgs,
		Long: `Open a pull request from the current branch into the base branch and
request auto-merge.

The title is derived from the branch name, the body lists the commits ahead
of origin/<base>. Repositories on the base branch, without new commits or
with an existing pull request are skipped. A failed auto-merge request is
reported in the details but does not fail the repository.`,
		Example: `  fleet pr-create                    # Into dev
  fleet pr-create --base main -s squash`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if base == "" {
				base = config.FromContext(ctx).BaseBranch
			}
			_, err := runOperation(ctx, ops.PrCreate, ops.Params{
				Base:     base,
				Strategy: strategyOrDefault(ctx, strategy),
			})
			return err
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Base branch (default: config base_branch, else dev)")
	addStrategyFlag(cmd, &strategy)

	return cmd
}

func newPrMergeCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:     "pr-merge",
		Short:   "Merge the open pull request of the current branch",
		GroupID: GroupPR,
		Args:    cobra.NoArgs,
		Long: `Merge the single open pull request whose head is the current branch and
delete the branch.

Repositories without an open pull request are skipped. Several open pull
requests for one branch fail the repository without merging any.`,
		Example: `  fleet pr-merge
  fleet pr-merge -s squash -r api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, err := runOperation(ctx, ops.PrMerge, ops.Params{Strategy: strategyOrDefault(ctx, strategy)})
			return err
		},
	}

	addStrategyFlag(cmd, &strategy)

	return cmd
}

func newPrDevToMainCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:     "pr-dev-to-main",
		Short:   "Open a release pull request from dev into the default branch",
		GroupID: GroupPR,
		Args:    cobra.NoArgs,
		Long: `Open a pull request from dev into each repository's default branch and
request auto-merge. dev is never deleted.

Repositories where origin/dev has no commits ahead of the default branch are
skipped.`,
		Example: `  fleet pr-dev-to-main
  fleet pr-dev-to-main -n`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, err := runOperation(ctx, ops.PrDevToMain, ops.Params{Strategy: strategyOrDefault(ctx, strategy)})
			return err
		},
	}

	addStrategyFlag(cmd, &strategy)

	return cmd
}
