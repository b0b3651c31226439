package cmd

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrToolNotFound is wrapped by Require for every executable missing from PATH
var ErrToolNotFound = errors.New("not found in PATH")

// Tool is an external CLI fleet drives.
type Tool struct {
	Name    string // executable looked up in PATH
	Install string // where to get it
}

// Require checks that every tool is in PATH. The error lists each missing
// tool with its install location and wraps ErrToolNotFound.
func Require(tools ...Tool) error {
	var errs []error
	for _, t := range tools {
		if _, err := exec.LookPath(t.Name); err != nil {
			errs = append(errs, fmt.Errorf("%s %w, install it from %s", t.Name, ErrToolNotFound, t.Install))
		}
	}
	return errors.Join(errs...)
}
