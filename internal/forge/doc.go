// Package forge provides an abstraction layer for git hosting services.
//
// GitHub is driven through the gh CLI and GitLab through glab. Both CLIs
// run inside the repository directory, so they resolve the project from
// the origin remote and use whatever authentication the user already has.
// Missing authentication is not detected up front; it surfaces as the
// CLI's own error text.
//
// # Forge Interface
//
// The [Forge] interface covers the pull request lifecycle fleet needs:
//
//   - Creating a PR/MR ([ErrPRExists] when one is already open)
//   - Requesting auto-merge with a [MergeStrategy]
//   - Listing open PRs/MRs for a branch
//   - Merging a PR/MR by number
//
// # Platform Detection
//
// Use [DetectFromRepo] to pick the forge from a repository's origin URL:
//
//  1. Custom host mappings from config (for self-hosted instances)
//  2. URL patterns (gitlab.com, gitlab.* domains)
//  3. Falls back to GitHub
//
// It fails when the repository has no origin or the forge's CLI is not in
// PATH, so the caller can fail that repository instead of running gh
// somewhere it cannot work.
//
// Never call gh or glab directly outside this package.
package forge
