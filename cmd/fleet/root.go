package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/fleet/internal/config"
	"github.com/raphi011/fleet/internal/git"
	"github.com/raphi011/fleet/internal/log"
	"github.com/raphi011/fleet/internal/output"
	"github.com/raphi011/fleet/internal/ui/styles"
)

var (
	// Global flags
	verbose      bool
	quiet        bool
	dryRun       bool
	rootDir      string
	repoFilter   []string
	outputFormat string
)

// Command group IDs for organizing help output
const (
	GroupRepo     = "repo"
	GroupPR       = "pr"
	GroupWorktree = "worktree"
	GroupConfig   = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Run git and pull request operations across a fleet of repositories",
	Long: `fleet treats every git repository directly under a root directory as one
managed unit.

It inspects branch and sync state, creates and switches branches, pulls and
pushes, drives pull requests on GitHub or GitLab and manages parallel
worktree roots. Each repository gets one row in the report: OK, SKIP, FAIL
or DRYRUN. A failing repository never stops the others.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		// Flags are parsed now, so the logger can honor -v/-q
		ctx := log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet))
		cmd.SetContext(ctx)

		return git.Check(ctx)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := styles.Init(loadedCfg.Theme); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fleet: failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = log.WithLogger(ctx, log.New(os.Stderr, false, false))
	ctx = output.WithPrinter(ctx, output.New(os.Stdout, os.Environ()))
	ctx = config.WithConfig(ctx, &loadedCfg)
	ctx = config.WithWorkDir(ctx, workDir)

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'fleet -h' for help")
		cancel()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	pf.BoolVarP(&dryRun, "dry-run", "n", false, "Check every precondition but change nothing")
	pf.StringVar(&rootDir, "root", "", "Fleet root directory (default: config root, else working directory)")
	pf.StringSliceVarP(&repoFilter, "repo", "r", nil, "Only operate on these repositories (repeatable)")
	pf.StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json or yaml")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	_ = rootCmd.RegisterFlagCompletionFunc("repo", completeRepoNames)
	_ = rootCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRepo, Title: "Repository Commands:"},
		&cobra.Group{ID: GroupPR, Title: "Pull Request Commands:"},
		&cobra.Group{ID: GroupWorktree, Title: "Worktree Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Repository commands
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newBranchCmd())
	rootCmd.AddCommand(newCheckoutCmd())
	rootCmd.AddCommand(newPullCmd())
	rootCmd.AddCommand(newPushCmd())

	// PR commands
	rootCmd.AddCommand(newPrCreateCmd())
	rootCmd.AddCommand(newPrMergeCmd())
	rootCmd.AddCommand(newPrDevToMainCmd())

	// Worktree commands
	rootCmd.AddCommand(newWorktreeAddCmd())
	rootCmd.AddCommand(newWorktreeRemoveCmd())

	// Config commands
	rootCmd.AddCommand(newCompletionCmd())
}
