// Package executor runs a dependency graph of stages with bounded parallelism.
//
// Launch owns a single control loop that holds the scheduler. Ready nodes are
// pushed onto a job channel sized to the graph, so handing out work never
// blocks; a fixed pool of workers runs them and reports back on a completion
// channel. The loop sleeps only on that channel or on context cancellation.
//
// A failing work unit never aborts Launch. What happens to the rest of the
// graph is decided by the failure Policy.
package executor
