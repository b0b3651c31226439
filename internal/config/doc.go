// Package config handles loading and validation of fleet configuration.
//
// Configuration is read from ~/.config/fleet/config.toml (or the file named
// by FLEET_CONFIG). A missing file means defaults.
//
// # Configuration Sources (highest priority first)
//
//   - Command-line flags (--root, --base, --strategy)
//   - FLEET_ROOT env var: fleet root directory
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - root: directory whose immediate children are the fleet repositories
//   - exclude: repository names never treated as part of the fleet
//   - base_branch: base for pr-create (default "dev")
//   - merge_strategy: "merge", "squash" or "rebase" (default "merge")
//   - worktree_format: sibling root naming, placeholders {root} and {branch}
//   - shared_files: fleet-level files copied into new worktree roots
//   - tool_repo: name of fleet's own repository; when it is not part of the
//     fleet, the fleet binary is copied into new worktree roots
//
// # Hooks Configuration
//
//	[hooks.tmux]
//	command = "tmux new-session -d -s {branch} -c {path}"
//	description = "Open a tmux session in the worktree root"
//	on = ["worktree-add"]
//
// Hooks are best-effort: a failing hook is reported as a warning and never
// changes a repository result.
//
// # Forge Configuration
//
// The [hosts] section maps custom domains to forge types ("github" or
// "gitlab") for self-hosted instances.
package config
