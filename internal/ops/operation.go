package ops

import (
	"fmt"
	"strings"
)

// Operation is a fleet-wide operation selector
type Operation string

const (
	Status         Operation = "status"
	Branch         Operation = "branch"
	Checkout       Operation = "checkout"
	Pull           Operation = "pull"
	Push           Operation = "push"
	PrCreate       Operation = "pr-create"
	PrMerge        Operation = "pr-merge"
	PrDevToMain    Operation = "pr-dev-to-main"
	WorktreeAdd    Operation = "worktree-add"
	WorktreeRemove Operation = "worktree-remove"
)

// Operations lists every operation in display order
var Operations = []Operation{
	Status, Branch, Checkout, Pull, Push,
	PrCreate, PrMerge, PrDevToMain,
	WorktreeAdd, WorktreeRemove,
}

// ParseOperation returns the operation named s
func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations {
		if string(op) == s {
			return op, nil
		}
	}
	names := make([]string, len(Operations))
	for i, op := range Operations {
		names[i] = string(op)
	}
	return "", fmt.Errorf("unknown operation %q (valid: %s)", s, strings.Join(names, ", "))
}

// RequiresBranch reports whether the operation needs a target branch name
func (op Operation) RequiresBranch() bool {
	switch op {
	case Branch, Checkout, WorktreeAdd, WorktreeRemove:
		return true
	}
	return false
}
