// Package cmd provides helpers for executing external commands with proper error handling.
//
// Every call takes the working directory explicitly, so no command ever
// depends on (or changes) the process working directory.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoPath, "git", "fetch", "origin"); err != nil {
//	    // err text is git's stderr, e.g. "fatal: 'origin' does not appear to be a git repository"
//	}
//
//	out, err := cmd.OutputContext(ctx, repoPath, "gh", "pr", "list", "--json", "number")
//
// Commands are traced through the context logger in verbose mode.
//
// # Design Notes
//
// fleet shells out to the git/gh/glab CLIs rather than using Go libraries for
// mutations. This keeps the user's configuration (SSH keys, credential
// helpers, gh auth) authoritative.
package cmd
