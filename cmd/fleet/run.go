package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/fleet/internal/config"
	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/forge"
	"github.com/raphi011/fleet/internal/log"
	"github.com/raphi011/fleet/internal/ops"
	"github.com/raphi011/fleet/internal/output"
	"github.com/raphi011/fleet/internal/report"
	"github.com/raphi011/fleet/internal/ui/progress"
	"github.com/raphi011/fleet/internal/worktree"
)

// invocation is one resolved fleet run
type invocation struct {
	root   string
	repos  []fleet.Repo
	engine *ops.Engine
}

// resolveRoot picks the fleet root: --root, then config, then the working dir
func resolveRoot(ctx context.Context) (string, error) {
	root := rootDir
	if root == "" {
		root = config.FromContext(ctx).Root
	}
	if root == "" {
		root = config.WorkDirFromContext(ctx)
	}
	if root == "" {
		return "", fmt.Errorf("no fleet root: pass --root or set root in %s", configPathHint())
	}
	expanded, err := config.ExpandPath(root)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

func configPathHint() string {
	if p, err := config.Path(); err == nil {
		return p
	}
	return "the config file"
}

// prepare discovers and filters the fleet and builds the engine
func prepare(ctx context.Context) (*invocation, error) {
	l := log.FromContext(ctx)
	cfg := config.FromContext(ctx)

	root, err := resolveRoot(ctx)
	if err != nil {
		return nil, err
	}

	all, err := fleet.Discover(ctx, root, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	repos := all
	if len(repoFilter) > 0 {
		var missing []string
		repos, missing = fleet.Filter(all, repoFilter)
		for _, name := range missing {
			warnMissing(l, name, fleet.Names(all))
		}
	}
	l.Debug("discovered fleet", "root", root, "repos", len(repos))

	return &invocation{root: root, repos: repos, engine: newEngine(cfg, root)}, nil
}

func warnMissing(l *log.Logger, name string, candidates []string) {
	if s := fleet.Suggest(name, candidates); len(s) > 0 {
		l.Warnf("repository %q not found, did you mean: %s?", name, strings.Join(s, ", "))
		return
	}
	l.Warnf("repository %q not found", name)
}

func newEngine(cfg *config.Config, root string) *ops.Engine {
	hosts := cfg.Hosts
	return &ops.Engine{
		Forges: func(ctx context.Context, dir string) (forge.Forge, error) {
			return forge.DetectFromRepo(ctx, dir, hosts)
		},
		Worktrees: &worktree.Manager{
			FleetRoot:   root,
			Format:      cfg.WorktreeFormat,
			SharedFiles: cfg.SharedFiles,
			ToolRepo:    cfg.ToolRepo,
			ToolBinary:  toolBinary(),

			PreservePatterns: cfg.Preserve.Patterns,
			PreserveExclude:  cfg.Preserve.Exclude,
		},
	}
}

// toolBinary returns the running executable, or "" if it cannot be resolved
func toolBinary() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}

// runOperation validates, runs op over the fleet and writes the report.
// Per-repository failures are rows, only fatal errors are returned.
func runOperation(ctx context.Context, op ops.Operation, p ops.Params) ([]ops.Result, error) {
	format, err := report.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	p.DryRun = dryRun
	if err := p.Validate(op); err != nil {
		return nil, err
	}

	inv, err := prepare(ctx)
	if err != nil {
		return nil, err
	}
	return execute(ctx, inv, op, p, format)
}

func execute(ctx context.Context, inv *invocation, op ops.Operation, p ops.Params, format report.Format) ([]ops.Result, error) {
	if showProgress() && len(inv.repos) > 1 {
		bar := progress.NewBar(os.Stderr, len(inv.repos))
		bar.Start()
		defer bar.Stop()
		inv.engine.Progress = bar
	}
	results, runErr := inv.engine.Run(ctx, op, inv.repos, p)
	if runErr != nil && results == nil {
		return nil, runErr
	}
	if err := report.Write(output.FromContext(ctx).Writer(), format, op, p.DryRun, results); err != nil {
		return results, fmt.Errorf("write report: %w", err)
	}
	return results, runErr
}

// showProgress reports whether stderr is a terminal with no log lines to
// interleave with the bar
func showProgress() bool {
	if verbose || quiet {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// strategyOrDefault returns the --strategy value, else the configured one
func strategyOrDefault(ctx context.Context, flag string) forge.MergeStrategy {
	if flag != "" {
		return forge.MergeStrategy(flag)
	}
	return forge.MergeStrategy(config.FromContext(ctx).MergeStrategy)
}
