package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raphi011/fleet/internal/ops"
)

// Format selects how results are written
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted output formats
var Formats = []Format{FormatTable, FormatJSON, FormatYAML}

// ParseFormat validates an output format name; "" means table
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	f := Format(strings.ToLower(s))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("invalid output format %q (available: table, json, yaml)", s)
	}
	return f, nil
}

// Document is the machine-readable report
type Document struct {
	Operation ops.Operation `json:"operation" yaml:"operation"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	Results   []ops.Result  `json:"results" yaml:"results"`
	Summary   Counts        `json:"summary" yaml:"summary"`
}

// Write renders results for op to w in format f
func Write(w io.Writer, f Format, op ops.Operation, dryRun bool, results []ops.Result) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document(op, dryRun, results))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(document(op, dryRun, results)); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No repositories found")
		return err
	}
	tbl := ResultsTable(results)
	if op == ops.Status {
		tbl = StatusTable(results)
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n", tbl, Summary(results))
	return err
}

func document(op ops.Operation, dryRun bool, results []ops.Result) Document {
	if results == nil {
		results = []ops.Result{}
	}
	return Document{Operation: op, DryRun: dryRun, Results: results, Summary: Count(results)}
}
