// Package scheduler decides which stages of a dependency graph may run next.
//
// A Scheduler is a plain state machine owned by a single control loop: it is
// seeded with the level-0 nodes and advanced by reporting completions. It
// performs no I/O and no locking; the executor serializes every call.
package scheduler
