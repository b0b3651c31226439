// Package format handles worktree root folder naming and path sanitization.
//
// A worktree root is a sibling of the fleet root, named from a configurable
// format string with placeholders substituted at creation time.
//
// # Format Placeholders
//
// Available placeholders for worktree_format config:
//
//   - {root}: Folder name of the fleet root
//   - {branch}: Branch name as provided to the command
//
// Default format is "{root}-{branch}", so a fleet at ~/src/acme gets
// worktree roots like ~/src/acme-feature-x.
//
// # Path Sanitization
//
// Names are sanitized to create valid filesystem paths.
// Characters replaced with "-": / \ : * ? " < > |
//
// This ensures branches like "feature/my-branch" become "feature-my-branch"
// in the folder name.
package format
