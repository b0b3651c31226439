// Package report renders operation results.
//
// Table output is a borderless lipgloss table with one row per repository
// in fleet order, followed by a summary line of non-zero status counts.
// JSON and YAML output carry the same rows for scripting.
package report
