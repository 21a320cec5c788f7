// Package orchestrator implements the scenario execution engine.
//
// The pipeline runs catalog -> validator -> scheduler -> coordinator:
//   - BuildGraph derives the dependency graph from a scenario's event
//     list and rejects cycles and unresolved references
//   - Validator composes template, parameter, and structural checks
//     into one aggregated pass/fail decision
//   - BuildPlan topologically sorts the graph into a deterministic,
//     offset-annotated execution plan
//   - Coordinator dispatches plans through the log sink with
//     per-scenario mutual exclusion, cooperative cancellation, and
//     non-blocking progress reporting
//
// The Service wraps these into the public surface consumed by the
// API layers.
package orchestrator
