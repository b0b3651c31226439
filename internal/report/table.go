package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/fleet/internal/fleet"
	"github.com/raphi011/fleet/internal/ops"
	"github.com/raphi011/fleet/internal/ui/styles"
)

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which calculates
// column widths from content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	return t.String() + "\n"
}

var resultHeaders = []string{"REPO", "STATUS", "DETAILS"}

// ResultsTable renders one REPO/STATUS/DETAILS row per result
func ResultsTable(results []ops.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Repo, StatusLabel(r.Status), r.Details})
	}
	return RenderTable(resultHeaders, rows)
}

var statusHeaders = []string{"REPO", "BRANCH", "DEFAULT", "DEV", "STATE", "SYNC"}

// StatusTable renders the inspected state of each repository. Rows whose
// inspection failed show the error in the STATE column.
func StatusTable(results []ops.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, statusRow(r))
	}
	return RenderTable(statusHeaders, rows)
}

func statusRow(r ops.Result) []string {
	s := r.State
	if s == nil || s.Err != nil || r.Status == ops.StatusFail {
		return []string{r.Repo, "", "", "", styles.ErrorStyle.Render("error: " + r.Details), ""}
	}

	branch := s.Branch
	if s.Detached() {
		branch = styles.WarningStyle.Render(branch)
	}
	dev := "-"
	if s.HasDev {
		dev = "yes"
	}
	state := styles.SuccessStyle.Render("clean")
	if s.Dirty {
		state = styles.WarningStyle.Render("dirty")
	}
	return []string{r.Repo, branch, s.DefaultBranch, dev, state, syncLabel(s)}
}

func syncLabel(s *fleet.Repository) string {
	if !s.HasUpstream() {
		return styles.MutedStyle.Render("no upstream")
	}
	label := fmt.Sprintf("↑%d ↓%d", s.Ahead, s.Behind)
	if s.Ahead == 0 && s.Behind == 0 {
		return styles.MutedStyle.Render(label)
	}
	return label
}

// StatusLabel renders a result status in its theme color
func StatusLabel(s ops.ResultStatus) string {
	switch s {
	case ops.StatusOK:
		return styles.SuccessStyle.Render(string(s))
	case ops.StatusSkip:
		return styles.WarningStyle.Render(string(s))
	case ops.StatusFail:
		return styles.ErrorStyle.Render(string(s))
	case ops.StatusDryRun:
		return styles.MutedStyle.Render(string(s))
	}
	return string(s)
}

// Counts tallies results by status.
type Counts struct {
	OK      int `json:"ok" yaml:"ok"`
	DryRun  int `json:"dry_run" yaml:"dry_run"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Failed  int `json:"failed" yaml:"failed"`
}

// Count tallies results by status
func Count(results []ops.Result) Counts {
	var c Counts
	for _, r := range results {
		switch r.Status {
		case ops.StatusOK:
			c.OK++
		case ops.StatusDryRun:
			c.DryRun++
		case ops.StatusSkip:
			c.Skipped++
		case ops.StatusFail:
			c.Failed++
		}
	}
	return c
}

// Summary lists the non-zero status counts, e.g. "1 ok, 2 skipped".
// An empty result set yields "no repositories".
func Summary(results []ops.Result) string {
	c := Count(results)
	var parts []string
	if c.OK > 0 {
		parts = append(parts, fmt.Sprintf("%d ok", c.OK))
	}
	if c.DryRun > 0 {
		parts = append(parts, fmt.Sprintf("%d dry-run", c.DryRun))
	}
	if c.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", c.Skipped))
	}
	if c.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", c.Failed))
	}
	if len(parts) == 0 {
		return "no repositories"
	}
	return strings.Join(parts, ", ")
}
