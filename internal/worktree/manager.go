package worktree

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/raphi011/fleet/internal/format"
	"github.com/raphi011/fleet/internal/log"
)

// Manager computes worktree root paths and maintains their auxiliary files.
type Manager struct {
	FleetRoot   string   // absolute fleet root
	Format      string   // worktree_format, e.g. "{root}-{branch}"
	SharedFiles []string // fleet-level files copied into every root
	ToolRepo    string   // fleet member holding the tool's own source
	ToolBinary  string   // running executable, "" to skip copying it

	PreservePatterns []string // git-ignored files copied into new linked worktrees
	PreserveExclude  []string // path segments never preserved, e.g. node_modules
}

// RootPath returns the worktree root for branch, a sibling of the fleet root.
func (m *Manager) RootPath(branch string) string {
	name := format.FormatRootName(m.Format, filepath.Base(m.FleetRoot), branch)
	return filepath.Join(filepath.Dir(m.FleetRoot), name)
}

// LinkedPath returns the linked worktree location for repo inside root.
func (m *Manager) LinkedPath(root, repo string) string {
	return filepath.Join(root, repo)
}

// auxNames lists the file names Finalize may place in a root.
func (m *Manager) auxNames() []string {
	names := slices.Clone(m.SharedFiles)
	if m.ToolBinary != "" {
		names = append(names, filepath.Base(m.ToolBinary))
	}
	return names
}

// Finalize copies the shared files that exist in the fleet root into root.
// The tool binary is copied as well unless ToolRepo is one of repos, in
// which case the root already carries the tool's source.
func (m *Manager) Finalize(ctx context.Context, root string, repos []string) error {
	l := log.FromContext(ctx)

	for _, name := range m.SharedFiles {
		src := filepath.Join(m.FleetRoot, name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			l.Debug("shared file not present", "file", src)
			continue
		}
		if err := copyFile(src, filepath.Join(root, name)); err != nil {
			return fmt.Errorf("copy %s: %w", name, err)
		}
		l.Debug("copied shared file", "file", name, "root", root)
	}

	if m.ToolBinary == "" || slices.Contains(repos, m.ToolRepo) {
		return nil
	}
	dst := filepath.Join(root, filepath.Base(m.ToolBinary))
	if err := copyFile(m.ToolBinary, dst); err != nil {
		return fmt.Errorf("copy %s: %w", filepath.Base(m.ToolBinary), err)
	}
	l.Debug("copied tool binary", "dst", dst)
	return nil
}

// Cleanup deletes root when it only contains auxiliary copies, which are
// always regular files. A directory is never auxiliary, even when it shares
// a name with one (the tool repository's linked worktree is named like the
// tool binary). Otherwise root is kept and the unexpected entries are
// returned, sorted. A missing root is not an error.
func (m *Manager) Cleanup(ctx context.Context, root string) (removed bool, leftovers []string, err error) {
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return false, nil, nil
	}
	if err != nil {
		return false, nil, fmt.Errorf("read worktree root: %w", err)
	}

	aux := m.auxNames()
	for _, e := range entries {
		if !e.Type().IsRegular() || !slices.Contains(aux, e.Name()) {
			leftovers = append(leftovers, e.Name())
		}
	}
	if len(leftovers) > 0 {
		log.FromContext(ctx).Debug("keeping worktree root", "root", root, "leftovers", len(leftovers))
		return false, leftovers, nil
	}

	if err := os.RemoveAll(root); err != nil {
		return false, nil, fmt.Errorf("remove worktree root: %w", err)
	}
	return true, nil, nil
}

// copyFile copies src to dst keeping src's permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
