package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/raphi011/fleet/internal/cmd"
	"github.com/raphi011/fleet/internal/log"
)

// Tool is the git executable
var Tool = cmd.Tool{Name: "git", Install: "https://git-scm.com"}

// MinVersion is the oldest supported git: fleet relies on git switch and
// fetch --no-write-fetch-head (2.29).
var MinVersion = [2]int{2, 29}

// Check verifies that git is installed and at least MinVersion.
// A version string fleet cannot parse (vendor builds) is accepted.
func Check(ctx context.Context) error {
	if err := cmd.Require(Tool); err != nil {
		return err
	}
	out, err := lineGit(ctx, "", "version")
	if err != nil {
		return fmt.Errorf("git version: %v", err)
	}
	major, minor, ok := parseVersion(out)
	if !ok {
		log.FromContext(ctx).Debug("unrecognized git version", "output", out)
		return nil
	}
	if major < MinVersion[0] || (major == MinVersion[0] && minor < MinVersion[1]) {
		return fmt.Errorf("git %d.%d is too old, fleet needs %d.%d or newer", major, minor, MinVersion[0], MinVersion[1])
	}
	return nil
}

// parseVersion reads "git version 2.39.3 (Apple Git-146)" as 2, 39
func parseVersion(s string) (major, minor int, ok bool) {
	v, found := strings.CutPrefix(strings.TrimSpace(s), "git version ")
	if !found {
		return 0, 0, false
	}
	parts := strings.SplitN(strings.Fields(v + " ")[0], ".", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}
