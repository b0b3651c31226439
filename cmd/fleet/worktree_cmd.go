package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/fleet/internal/config"
	"github.com/raphi011/fleet/internal/git"
	"github.com/raphi011/fleet/internal/hooks"
	"github.com/raphi011/fleet/internal/log"
	"github.com/raphi011/fleet/internal/ops"
	"github.com/raphi011/fleet/internal/report"
	"github.com/raphi011/fleet/internal/ui/prompt"
)

func newWorktreeAddCmd() *cobra.Command {
	var (
		hookName string
		noHook   bool
		env      []string
		copyPath bool
	)

	cmd := &cobra.Command{
		Use:     "worktree-add <branch>",
		Short:   "Create a parallel worktree root for a branch",
		Aliases: []string{"wa"},
		GroupID: GroupWorktree,
		Args:    cobra.ExactArgs(1),
		Long: `Create a worktree root next to the fleet root holding one linked worktree
per repository, all on the given branch.

Existing branches (local or on origin) are checked out. Otherwise the branch
is created from origin/dev; repositories without dev are skipped. Shared
fleet files and the fleet binary are copied into the new root, then hooks
with on = ["worktree-add"] run inside it.

Hook placeholders: {path}, {branch}, {root}, {trigger}, plus any --arg key.`,
		Example: `  fleet worktree-add feat/login             # ../acme-feat-login
  fleet worktree-add feat/login --hook term # Run one hook
  fleet worktree-add hotfix --no-hook --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			cfg := config.FromContext(ctx)
			branch := args[0]

			// Fail on bad hook flags before anything is created
			matches, err := hooks.SelectHooks(cfg.Hooks, hookName, noHook, hooks.TriggerWorktreeAdd)
			if err != nil {
				return err
			}
			vars, err := hooks.ParseEnv(env)
			if err != nil {
				return err
			}

			format, err := report.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			p := ops.Params{Branch: branch, DryRun: dryRun}
			if err := p.Validate(ops.WorktreeAdd); err != nil {
				return err
			}
			inv, err := prepare(ctx)
			if err != nil {
				return err
			}
			if _, err := execute(ctx, inv, ops.WorktreeAdd, p, format); err != nil {
				return err
			}

			wtRoot := inv.engine.Worktrees.RootPath(branch)
			if !dryRun {
				if _, err := os.Stat(wtRoot); err != nil {
					return nil
				}
			}

			hooks.RunAllNonFatal(ctx, matches, hooks.Context{
				Path:    wtRoot,
				Branch:  branch,
				Root:    inv.root,
				Trigger: hooks.TriggerWorktreeAdd,
				Env:     vars,
				DryRun:  dryRun,
			}, wtRoot)

			if copyPath && !dryRun {
				if err := clipboard.WriteAll(wtRoot); err != nil {
					l.Warnf("copy to clipboard: %v", err)
				} else {
					l.Printf("Copied %s to clipboard\n", wtRoot)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hookName, "hook", "", "Run only this hook")
	cmd.Flags().BoolVar(&noHook, "no-hook", false, "Skip hooks")
	cmd.Flags().StringSliceVarP(&env, "arg", "a", nil, "Set hook variable KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&copyPath, "copy", false, "Copy the worktree root path to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
	_ = cmd.RegisterFlagCompletionFunc("hook", completeHooks)

	return cmd
}

func newWorktreeRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:               "worktree-remove <branch>",
		Short:             "Remove the worktree root of a branch",
		Aliases:           []string{"wr"},
		GroupID:           GroupWorktree,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeWorktreeBranches,
		Long: `Force-remove the linked worktree of every repository from the branch's
worktree root, then delete the root.

The root is kept, with a warning, when it still holds files fleet did not
put there. Asks for confirmation on a terminal unless --yes or --dry-run.`,
		Example: `  fleet worktree-remove feat/login
  fleet worktree-remove feat/login --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			branch := args[0]

			format, err := report.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			p := ops.Params{Branch: branch, DryRun: dryRun}
			if err := p.Validate(ops.WorktreeRemove); err != nil {
				return err
			}
			inv, err := prepare(ctx)
			if err != nil {
				return err
			}

			wtRoot := inv.engine.Worktrees.RootPath(branch)
			if !yes && !dryRun && isInteractive() && exists(wtRoot) {
				question := fmt.Sprintf("Remove %s and these linked worktrees?", wtRoot)
				ok, err := prompt.Confirm(ctx, os.Stderr, question, removalItems(ctx, inv, wtRoot))
				if errors.Is(err, prompt.ErrCancelled) || (err == nil && !ok) {
					log.FromContext(ctx).Println("Cancelled")
					return nil
				}
				if err != nil {
					return err
				}
			}

			_, err = execute(ctx, inv, ops.WorktreeRemove, p, format)
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// isInteractive reports whether stdin is a terminal
func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// removalItems lists the linked worktrees a removal would delete, flagging
// those with uncommitted changes
func removalItems(ctx context.Context, inv *invocation, wtRoot string) []prompt.Item {
	var items []prompt.Item
	for _, r := range inv.repos {
		linked := inv.engine.Worktrees.LinkedPath(wtRoot, r.Name)
		if !exists(linked) {
			continue
		}
		it := prompt.Item{Name: r.Name}
		if dirty, err := git.IsDirty(ctx, linked); err != nil {
			it.Warning = "status unknown"
		} else if dirty {
			it.Warning = "uncommitted changes"
		}
		items = append(items, it)
	}
	return items
}
