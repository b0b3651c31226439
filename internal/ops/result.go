package ops

import (
	"fmt"

	"github.com/raphi011/fleet/internal/fleet"
)

// ResultStatus is the terminal classification of one repository
type ResultStatus string

const (
	StatusOK     ResultStatus = "OK"
	StatusSkip   ResultStatus = "SKIP"
	StatusFail   ResultStatus = "FAIL"
	StatusDryRun ResultStatus = "DRYRUN"
)

// Result is the outcome of an operation on one repository
type Result struct {
	Repo    string       `json:"repo" yaml:"repo"`
	Status  ResultStatus `json:"status" yaml:"status"`
	Details string       `json:"details" yaml:"details"`

	// State is the inspection the decision was based on
	State *fleet.Repository `json:"state,omitempty" yaml:"state,omitempty"`
}

func ok(repo, format string, args ...any) Result {
	return Result{Repo: repo, Status: StatusOK, Details: fmt.Sprintf(format, args...)}
}

func skip(repo, format string, args ...any) Result {
	return Result{Repo: repo, Status: StatusSkip, Details: fmt.Sprintf(format, args...)}
}

func dryRun(repo, format string, args ...any) Result {
	return Result{Repo: repo, Status: StatusDryRun, Details: fmt.Sprintf(format, args...)}
}

// fail keeps the tool's error text verbatim
func fail(repo string, err error) Result {
	return Result{Repo: repo, Status: StatusFail, Details: err.Error()}
}
