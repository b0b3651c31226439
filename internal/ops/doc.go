// Package ops implements fleet operations.
//
// Every operation follows the same per-repository contract: inspect the
// repository, evaluate its preconditions, then classify the repository as
// SKIP, DRYRUN or apply. Applying invokes git or the forge CLI and yields
// OK or FAIL. Dry-run shares every precondition check with a real run and
// only diverges at the mutating call, so a preview never disagrees with
// the run it previews.
//
// [Engine.Run] processes repositories sequentially in fleet order and
// returns exactly one [Result] per repository. A failing repository never
// stops the ones after it. Only invalid parameters and worktree roots that
// already exist abort a run before any repository is touched.
package ops
