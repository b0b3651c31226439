package format

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultRootFormat is the default format for worktree root folder names
const DefaultRootFormat = "{root}-{branch}"

// ValidPlaceholders lists all supported placeholders
var ValidPlaceholders = []string{"{root}", "{branch}"}

// placeholderRegex matches {placeholder-name} patterns
var placeholderRegex = regexp.MustCompile(`\{[a-z-]+\}`)

// ValidateFormat checks if a format string is valid.
// The format must contain {branch}, use only known placeholders and
// produce a single folder name.
func ValidateFormat(format string) error {
	for _, match := range placeholderRegex.FindAllString(format, -1) {
		if !isValidPlaceholder(match) {
			return fmt.Errorf("unknown placeholder %q in format %q (valid: %s)",
				match, format, strings.Join(ValidPlaceholders, ", "))
		}
	}

	// Without the branch every worktree root would collide
	if !strings.Contains(format, "{branch}") {
		return fmt.Errorf("format %q must contain {branch}", format)
	}

	if strings.ContainsAny(format, `/\`) {
		return fmt.Errorf("format %q must be a folder name, not a path", format)
	}

	return nil
}

// isValidPlaceholder checks if a placeholder is in the valid list
func isValidPlaceholder(placeholder string) bool {
	for _, valid := range ValidPlaceholders {
		if placeholder == valid {
			return true
		}
	}
	return false
}

// FormatRootName applies the format template to generate the folder name of
// a worktree root. rootName is the fleet root's folder name.
func FormatRootName(format, rootName, branch string) string {
	result := format
	result = strings.ReplaceAll(result, "{root}", SanitizeForPath(rootName))
	result = strings.ReplaceAll(result, "{branch}", SanitizeForPath(branch))
	return result
}

// SanitizeForPath replaces characters that are problematic in file paths
// Replaces: / \ : * ? " < > | with -
func SanitizeForPath(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "-",
		"<", "-",
		">", "-",
		"|", "-",
	)
	return replacer.Replace(name)
}
