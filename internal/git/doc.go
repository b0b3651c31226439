// Package git provides git operations via the git CLI.
//
// Every function takes the repository directory explicitly and passes it
// to git with -C, so operations on one repository never depend on the
// process working directory.
//
// # Branch State
//
//   - [CurrentBranch]: current branch or [Detached]
//   - [IsDirty]: uncommitted changes in the working tree
//   - [LocalBranchExists], [RemoteBranchExists], [RemoteHead]: ref queries
//   - [Upstream], [AheadBehind]: tracking state
//
// # Synchronization
//
//   - [Fetch], [Pull], [Push], [Switch], [CreateBranch]
//   - [PeekRemote]: remote branch tip for dry-runs, no refs touched
//   - [CommitSubjects]: commit ranges for PR bodies
//
// # Environment
//
//   - [Check]: git in PATH and at least [MinVersion]
//
// # Worktree Operations
//
//   - [ListWorktrees]: parse "git worktree list --porcelain"
//   - [AddWorktree], [AddWorktreeNewBranch]: create linked worktrees
//   - [RemoveWorktree]: remove a linked worktree
package git
