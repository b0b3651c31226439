package worktree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/fleet/internal/cmd"
	"github.com/raphi011/fleet/internal/log"
)

// ignoredFiles returns paths (relative to dir) of all git-ignored files
// present in the working tree at dir.
func ignoredFiles(ctx context.Context, dir string) ([]string, error) {
	output, err := cmd.OutputContext(ctx, dir, "git",
		"ls-files", "--others", "--ignored", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	raw := strings.TrimSpace(string(output))
	if raw == "" {
		return nil, nil
	}
	return strings.Split(raw, "\n"), nil
}

// matchesPattern reports whether the file at relPath should be preserved.
// Patterns match the basename; any path segment in exclude rules it out.
func matchesPattern(relPath string, patterns, exclude []string) bool {
	for seg := range strings.SplitSeq(filepath.ToSlash(relPath), "/") {
		if slices.Contains(exclude, seg) {
			return false
		}
	}

	base := filepath.Base(relPath)
	for _, pat := range patterns {
		if matched, _ := filepath.Match(pat, base); matched {
			return true
		}
	}
	return false
}

// copyNew copies src to dst, creating parent directories, and never
// overwrites: it returns false when dst already exists.
func copyNew(src, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	defer dstFile.Close()

	srcFile, err := os.Open(src)
	if err != nil {
		os.Remove(dst)
		return false, err
	}
	defer srcFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		os.Remove(dst)
		return false, err
	}
	return true, nil
}

// PreserveFiles copies git-ignored files matching m.PreservePatterns from a repository
// checkout into its new linked worktree, e.g. local .env files. Existing
// files are left alone. It returns the relative paths copied; a file that
// fails to copy is logged and skipped.
func (m *Manager) PreserveFiles(ctx context.Context, sourceDir, targetDir string) ([]string, error) {
	if len(m.PreservePatterns) == 0 {
		return nil, nil
	}
	l := log.FromContext(ctx)

	ignored, err := ignoredFiles(ctx, sourceDir)
	if err != nil {
		return nil, err
	}

	var copied []string
	for _, relPath := range ignored {
		if !matchesPattern(relPath, m.PreservePatterns, m.PreserveExclude) {
			continue
		}
		ok, err := copyNew(filepath.Join(sourceDir, relPath), filepath.Join(targetDir, relPath))
		if err != nil {
			l.Debug("preserve: failed to copy file", "file", relPath, "error", err)
			continue
		}
		if ok {
			copied = append(copied, relPath)
		}
	}
	return copied, nil
}
