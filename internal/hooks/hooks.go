package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/fleet/internal/config"
	"github.com/raphi011/fleet/internal/log"
)

// shellQuote wraps s in single quotes for sh -c. An embedded single quote
// closes the quoting, is escaped, and reopens it.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// TriggerWorktreeAdd fires after worktree-add created a worktree root
const TriggerWorktreeAdd = "worktree-add"

// Context holds the values for placeholder substitution
type Context struct {
	Path    string            // absolute worktree root path
	Branch  string            // branch name
	Root    string            // fleet root the worktree was created from
	Trigger string            // operation that triggered the hook
	Env     map[string]string // custom variables from --arg key=value flags
	DryRun  bool              // if true, print command instead of executing
}

// HookMatch represents a hook that matched the current operation
type HookMatch struct {
	Hook config.Hook
	Name string
}

// SelectHooks determines which hooks to run based on config and CLI flags.
// If hookName is specified, only that hook runs. Otherwise all hooks whose
// "on" list contains trigger (or "all") run, in name order.
// Returns an error if the named hook doesn't exist.
func SelectHooks(cfg config.HooksConfig, hookName string, noHook bool, trigger string) ([]HookMatch, error) {
	if noHook {
		return nil, nil
	}

	// Explicit hook ignores the "on" condition
	if hookName != "" {
		hook, exists := cfg.Hooks[hookName]
		if !exists {
			return nil, fmt.Errorf("unknown hook %q", hookName)
		}
		return []HookMatch{{Hook: hook, Name: hookName}}, nil
	}

	var matches []HookMatch
	for name, hook := range cfg.Hooks {
		if hookMatchesTrigger(hook, trigger) {
			matches = append(matches, HookMatch{Hook: hook, Name: name})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	return matches, nil
}

// hookMatchesTrigger returns true if trigger is in the hook's "on" list.
// Hooks without "on" only run via --hook=name.
func hookMatchesTrigger(hook config.Hook, trigger string) bool {
	for _, on := range hook.On {
		if on == "all" || on == trigger {
			return true
		}
	}
	return false
}

// RunAllNonFatal runs all matched hooks in workDir, logging failures as
// warnings instead of returning errors.
func RunAllNonFatal(ctx context.Context, matches []HookMatch, hctx Context, workDir string) {
	for _, match := range matches {
		if err := runHook(ctx, match, hctx, workDir); err != nil {
			log.FromContext(ctx).Warnf("hook %q failed: %v", match.Name, err)
		}
	}
}

// runHook executes a single hook with variable substitution.
// Hook output goes to the log writer so it never mixes with the report.
func runHook(ctx context.Context, match HookMatch, hctx Context, workDir string) error {
	l := log.FromContext(ctx)
	command := SubstitutePlaceholders(match.Hook.Command, hctx)

	if hctx.DryRun {
		l.Printf("[dry-run] %s: %s\n", match.Name, command)
		return nil
	}

	l.Printf("Running hook '%s'...\n", match.Name)

	c := exec.CommandContext(ctx, "sh", "-c", command)
	c.Dir = workDir
	c.Stdout = l.Writer()
	c.Stderr = l.Writer()
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		c.Stdin = os.Stdin
	}

	if err := c.Run(); err != nil {
		return err
	}

	if match.Hook.Description != "" {
		l.Printf("  ✓ %s\n", match.Hook.Description)
	}
	return nil
}

// ParseEnv parses a slice of "key=value" strings into a map.
// Returns an error if any entry doesn't contain "=".
func ParseEnv(envSlice []string) (map[string]string, error) {
	result := make(map[string]string)
	for _, e := range envSlice {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("invalid arg format %q: expected KEY=VALUE", e)
		}
		if key == "" {
			return nil, fmt.Errorf("invalid arg format %q: key cannot be empty", e)
		}
		result[key] = value
	}
	return result, nil
}

// envPlaceholderRegex matches {key}, {key:raw}, or {key:-default} patterns.
// Applied after the static placeholders.
var envPlaceholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values from Context.
//
// Static placeholders: {path}, {branch}, {root}, {trigger}
// Env placeholders (from Context.Env):
//   - {key}          - shell-quoted value
//   - {key:raw}      - unquoted value (for embedding in existing quotes)
//   - {key:-default} - shell-quoted value with default if key missing
func SubstitutePlaceholders(command string, hctx Context) string {
	replacer := strings.NewReplacer(
		"{path}", shellQuote(hctx.Path),
		"{branch}", shellQuote(hctx.Branch),
		"{root}", shellQuote(hctx.Root),
		"{trigger}", shellQuote(hctx.Trigger),
	)
	result := replacer.Replace(command)

	return envPlaceholderRegex.ReplaceAllStringFunc(result, func(match string) string {
		submatch := envPlaceholderRegex.FindStringSubmatch(match)
		key := submatch[1]
		isRaw := submatch[2] == ":raw"
		value, ok := hctx.Env[key]
		if !ok {
			value = submatch[3] // empty string if no default specified
		}
		if isRaw {
			return value
		}
		return shellQuote(value)
	})
}
