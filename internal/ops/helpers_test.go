package ops

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/forge"
	"github.com/raphi011/fleet/internal/log"
)

// newFleetRoot creates <tmp>/acme so worktree roots land next to it
func newFleetRoot(t *testing.T, tmp string) string {
	t.Helper()
	root := filepath.Join(tmp, "acme")
	require.NoError(t, os.MkdirAll(root, 0o755))
	return root
}

func discover(t *testing.T, root string) []fleet.Repo {
	t.Helper()
	repos, err := fleet.Discover(context.Background(), root, nil)
	require.NoError(t, err)
	return repos
}

// logContext returns a context whose logger writes into the returned buffer
func logContext() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.WithLogger(context.Background(), log.New(&buf, false, false)), &buf
}

func byRepo(results []Result) map[string]Result {
	m := make(map[string]Result, len(results))
	for _, r := range results {
		m[r.Repo] = r
	}
	return m
}

// fakeForge records calls instead of running gh/glab
type fakeForge struct {
	createErr    error
	autoMergeErr error
	mergeErr     error
	open         []forge.OpenPR

	created    []forge.CreatePRParams
	autoMerged []autoMergeCall
	merged     []int
}

type autoMergeCall struct {
	ref          string
	strategy     forge.MergeStrategy
	deleteBranch bool
}

func (f *fakeForge) Name() string { return "fake" }

func (f *fakeForge) CreatePR(_ context.Context, _ string, params forge.CreatePRParams) (*forge.CreatePRResult, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, params)
	n := len(f.created)
	return &forge.CreatePRResult{Number: n, URL: "https://github.com/acme/api/pull/" + strconv.Itoa(n)}, nil
}

func (f *fakeForge) EnableAutoMerge(_ context.Context, _ string, ref string, strategy forge.MergeStrategy, deleteBranch bool) error {
	f.autoMerged = append(f.autoMerged, autoMergeCall{ref, strategy, deleteBranch})
	return f.autoMergeErr
}

func (f *fakeForge) OpenPRsForBranch(_ context.Context, _ string, _ string) ([]forge.OpenPR, error) {
	return f.open, nil
}

func (f *fakeForge) MergePR(_ context.Context, _ string, number int, _ forge.MergeStrategy, _ bool) error {
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.merged = append(f.merged, number)
	return nil
}

func engineWith(f forge.Forge) *Engine {
	return &Engine{Forges: func(context.Context, string) (forge.Forge, error) { return f, nil }}
}
