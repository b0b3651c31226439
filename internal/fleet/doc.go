// Package fleet discovers the repositories under a fleet root and inspects
// their branch and sync state.
//
// A fleet is the set of immediate subdirectories of the root that are git
// repositories, minus excluded names, optionally narrowed by a name
// filter. Discovery always returns repositories sorted by name; every
// report downstream keeps that order.
//
// Nothing is cached: each invocation discovers and inspects from scratch.
package fleet
