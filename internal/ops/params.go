package ops

import (
	"fmt"

	"github.com/raphi011/fleet/internal/forge"
)

// DefaultBase is the base branch PRs target unless configured otherwise
const DefaultBase = "dev"

// Params carries the operation-specific arguments
type Params struct {
	Branch   string              // target branch (branch, checkout, worktree-*)
	Base     string              // PR base branch, pr-create only
	Strategy forge.MergeStrategy // merge strategy for pr-* operations
	DryRun   bool
}

// Validate checks params for op and fills in defaults
func (p *Params) Validate(op Operation) error {
	if _, err := ParseOperation(string(op)); err != nil {
		return err
	}
	if op.RequiresBranch() && p.Branch == "" {
		return fmt.Errorf("%s requires a branch name", op)
	}
	if p.Base == "" {
		p.Base = DefaultBase
	}
	strategy, err := forge.ParseMergeStrategy(string(p.Strategy))
	if err != nil {
		return err
	}
	p.Strategy = strategy
	return nil
}
