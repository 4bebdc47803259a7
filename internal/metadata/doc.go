// Package metadata holds the computed state threaded through a build: the
// directory layout, the build configuration, and the build unit aggregate.
//
// A [Unit] starts out without finalized dependencies. When resolution
// completes, [Unit.WithFinalizedDependencies] produces a new immutable
// snapshot; the original is never mutated in place. This keeps the two
// dependency-handling branches of the orchestrator (reuse vs. resolve)
// from ever observing stale state.
package metadata
