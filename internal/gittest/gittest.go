// Package gittest builds throwaway git repositories for tests.
//
// Fixtures are real repositories in t.TempDir(): a bare "origin" plus a
// clone, so fetch/pull/push behave exactly as they do against a hosted
// remote.
package gittest

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TempDir creates a temp directory and resolves macOS symlinks.
func TempDir(t testing.TB) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return dir
}

// Git runs git in dir and returns trimmed stdout. Fails the test on error.
func Git(t testing.TB, dir string, args ...string) string {
	t.Helper()
	out, err := try(dir, args...)
	if err != nil {
		t.Fatalf("git %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func try(dir string, args ...string) (string, error) {
	c := exec.Command("git", args...)
	c.Dir = dir
	c.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return "", &gitError{err: err, stderr: strings.TrimSpace(stderr.String())}
	}
	return strings.TrimSpace(stdout.String()), nil
}

type gitError struct {
	err    error
	stderr string
}

func (e *gitError) Error() string { return e.err.Error() + ": " + e.stderr }

// configure sets git user config and disables GPG signing.
func configure(t testing.TB, repoPath string) {
	t.Helper()
	Git(t, repoPath, "config", "user.email", "test@test.com")
	Git(t, repoPath, "config", "user.name", "Test User")
	Git(t, repoPath, "config", "commit.gpgsign", "false")
}

// InitRepo creates a repository at path on branch main with one commit
// and no remote.
func InitRepo(t testing.TB, path string) string {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	Git(t, path, "init", "--quiet", "-b", "main")
	configure(t, path)
	Commit(t, path, "README.md", "Initial commit")
	return path
}

// Repo is a clone with its bare origin.
type Repo struct {
	Path   string
	Origin string
}

// NewRepo creates <parent>/<name> cloned from a bare origin kept outside
// parent. main is pushed and origin/HEAD points to it.
func NewRepo(t testing.TB, parent, name string) Repo {
	t.Helper()
	originDir := TempDir(t)
	origin := filepath.Join(originDir, name+".git")
	Git(t, originDir, "init", "--quiet", "--bare", "-b", "main", origin)

	path := filepath.Join(parent, name)
	Git(t, parent, "clone", "--quiet", origin, path)
	configure(t, path)
	Commit(t, path, "README.md", "Initial commit")
	Git(t, path, "push", "--quiet", "-u", "origin", "main")
	Git(t, path, "remote", "set-head", "origin", "main")

	return Repo{Path: path, Origin: origin}
}

// NewRepoWithDev is NewRepo plus a dev branch pushed to origin with
// upstream tracking, left checked out.
func NewRepoWithDev(t testing.TB, parent, name string) Repo {
	t.Helper()
	r := NewRepo(t, parent, name)
	Git(t, r.Path, "switch", "--quiet", "-c", "dev")
	Git(t, r.Path, "push", "--quiet", "-u", "origin", "dev")
	return r
}

// Commit writes a file (appending a line when it exists) and commits it.
func Commit(t testing.TB, dir, file, msg string) {
	t.Helper()
	p := filepath.Join(dir, file)
	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(msg + "\n"); err != nil {
		f.Close()
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	Git(t, dir, "add", file)
	Git(t, dir, "commit", "--quiet", "-m", msg)
}

// Clone makes a second clone of origin, e.g. to simulate a teammate
// pushing commits.
func Clone(t testing.TB, origin string) string {
	t.Helper()
	path := filepath.Join(TempDir(t), "other")
	Git(t, filepath.Dir(path), "clone", "--quiet", origin, path)
	configure(t, path)
	return path
}

// Head returns the commit HEAD points to.
func Head(t testing.TB, dir string) string {
	t.Helper()
	return Git(t, dir, "rev-parse", "HEAD")
}

// BranchExists reports whether refs/heads/<branch> exists.
func BranchExists(dir, branch string) bool {
	_, err := try(dir, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// RemoteHasBranch reports whether the bare origin has branch.
func RemoteHasBranch(origin, branch string) bool {
	_, err := try(origin, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

// WriteFile writes content to dir/name, creating parents.
func WriteFile(t testing.TB, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
