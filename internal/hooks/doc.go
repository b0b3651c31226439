// Package hooks provides post-operation hook execution with placeholder substitution.
//
// Hooks are shell commands defined in config. The typical use is launching a
// terminal session or editor in a freshly created worktree root.
//
// # Hook Selection
//
//   - Automatic: Hooks whose "on" list contains the operation run after it
//   - Manual: Use --hook=name to run a specific hook, --no-hook to skip all
//
// Example config:
//
//	[hooks.term]
//	command = "tmux new-session -d -s {branch:raw} -c {path}"
//	on = ["worktree-add"]
//
// # Placeholder Substitution
//
//   - {path}: Absolute worktree root path
//   - {branch}: Branch name
//   - {root}: Fleet root path
//   - {trigger}: Operation that triggered the hook
//
// Custom variables via --arg key=value:
//
//   - {key}: Value from --arg key=value
//   - {key:-default}: Value with fallback if not provided
//
// Values are shell-quoted unless the :raw suffix is used.
//
// Hooks are best-effort: a failing hook is logged as a warning and never
// changes an operation's results.
package hooks
