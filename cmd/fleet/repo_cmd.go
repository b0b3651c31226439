package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/fleet/internal/ops"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show branch and sync state of every repository",
		Aliases: []string{"st"},
		GroupID: GroupRepo,
		Args:    cobra.NoArgs,
		Long: `Show the current branch, default branch, dev branch presence, dirty state
and ahead/behind counts against the upstream of every repository.`,
		Example: `  fleet status                 # Whole fleet
  fleet status -r api -r web   # Only some repositories
  fleet status -o json         # Machine-readable`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runOperation(cmd.Context(), ops.Status, ops.Params{})
			return err
		},
	}
}

func newBranchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "branch <name>",
		Short:   "Create a branch from an up-to-date dev in every repository",
		GroupID: GroupRepo,
		Args:    cobra.ExactArgs(1),
		Long: `Create and switch to a new branch in every repository that has a dev branch.

Each repository switches to dev, pulls it from origin, then branches off the
updated tip. Repositories without dev, or where the branch already exists,
are skipped.`,
		Example: `  fleet branch feat/login      # Create feat/login everywhere
  fleet branch feat/login -n   # Preview only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runOperation(cmd.Context(), ops.Branch, ops.Params{Branch: args[0]})
			return err
		},
	}
}

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "checkout <name>",
		Short:   "Switch every repository to an existing branch",
		Aliases: []string{"co"},
		GroupID: GroupRepo,
		Args:    cobra.ExactArgs(1),
		Long: `Switch every repository to a branch that exists locally or on origin.

Repositories with uncommitted changes are skipped so no work is lost.`,
		Example: `  fleet checkout dev           # Back to dev everywhere
  fleet co feat/login -r api   # One repository`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runOperation(cmd.Context(), ops.Checkout, ops.Params{Branch: args[0]})
			return err
		},
	}
}

func newPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "pull",
		Short:   "Pull the current branch of every repository",
		GroupID: GroupRepo,
		Args:    cobra.NoArgs,
		Example: `  fleet pull
  fleet pull -r api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runOperation(cmd.Context(), ops.Pull, ops.Params{})
			return err
		},
	}
}

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "push",
		Short:   "Push the current branch of every repository",
		GroupID: GroupRepo,
		Args:    cobra.NoArgs,
		Long: `Push the current branch of every repository to origin.

Branches without an upstream are published and start tracking origin.
Branches with nothing new are skipped.`,
		Example: `  fleet push
  fleet push -n                # Show what would be pushed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runOperation(cmd.Context(), ops.Push, ops.Params{})
			return err
		},
	}
}
