// Package worktree manages worktree roots: sibling directories of the fleet
// root that hold one linked worktree per repository for a single branch.
//
// Layout for a fleet at ~/src/acme and branch feat/x:
//
//	~/src/acme-feat-x/
//	├── api/        # linked worktree of ~/src/acme/api on feat/x
//	├── web/        # linked worktree of ~/src/acme/web on feat/x
//	├── AGENTS.md   # shared file copied from ~/src/acme
//	└── fleet       # tool binary, when the tool's repo is not in the fleet
//
// Shared files and the tool binary are the root's auxiliary copies. [Manager.Cleanup]
// deletes a root only when nothing besides them is left.
package worktree
