package fleet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/fleet/internal/log"
)

// Repo identifies one fleet member. Name is the directory name and is
// unique within a fleet.
type Repo struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Discover returns the git repositories directly under root, excluding
// the given names, sorted by name (byte order, case-sensitive).
// An empty fleet is not an error.
func Discover(ctx context.Context, root string, exclude []string) ([]Repo, error) {
	l := log.FromContext(ctx)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read fleet root %s: %w", absRoot, err)
	}

	var repos []Repo
	for _, entry := range entries {
		name := entry.Name()
		if slices.Contains(exclude, name) {
			l.Debug("excluded", "repo", name)
			continue
		}

		path := filepath.Join(absRoot, name)
		// os.Stat follows symlinked repositories
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			continue
		}
		if !hasGitMetadata(path) {
			continue
		}
		if err := validateRepo(path); err != nil {
			l.Debug("skipping invalid repository", "repo", name, "err", err)
			continue
		}
		repos = append(repos, Repo{Name: name, Path: path})
	}

	slices.SortFunc(repos, func(a, b Repo) int { return strings.Compare(a.Name, b.Name) })
	return repos, nil
}

// hasGitMetadata checks for a .git directory (regular repo) or file (linked worktree)
func hasGitMetadata(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir() || info.Mode().IsRegular()
}

// validateRepo opens the repository metadata without running git, so a
// stray or corrupt .git never makes it into the fleet.
func validateRepo(path string) error {
	_, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{EnableDotGitCommonDir: true})
	return err
}

// Filter keeps the repos whose name is in only, preserving order.
// An empty filter keeps everything. Names in only that match no repo are
// returned as missing, in the order given.
func Filter(repos []Repo, only []string) (kept []Repo, missing []string) {
	if len(only) == 0 {
		return repos, nil
	}
	for _, r := range repos {
		if slices.Contains(only, r.Name) {
			kept = append(kept, r)
		}
	}
	for _, name := range only {
		if !Contains(repos, name) && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	return kept, missing
}

// Contains reports whether a repo with the given name is in repos
func Contains(repos []Repo, name string) bool {
	return slices.ContainsFunc(repos, func(r Repo) bool { return r.Name == name })
}

// Names returns the repo names in order
func Names(repos []Repo) []string {
	names := make([]string, len(repos))
	for i, r := range repos {
		names[i] = r.Name
	}
	return names
}

// Suggest returns up to three candidate names that fuzzy-match name,
// best match first.
func Suggest(name string, candidates []string) []string {
	matches := fuzzy.Find(name, candidates)
	var out []string
	for i, m := range matches {
		if i == 3 {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
