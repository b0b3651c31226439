// Package prompt provides interactive terminal prompts.
//
// Prompts render on the writer they are given (stderr in fleet) so
// machine-readable output on stdout stays clean. Callers check that stdin
// is a terminal before prompting.
package prompt
