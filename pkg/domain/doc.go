// Package domain defines the data model shared across the engine:
// event templates, versioned scenario definitions, execution plans,
// execution state, and the validation/error taxonomy.
//
// Scenario definitions are immutable once saved; edits produce a new
// version keyed by (id, version). Execution state is mutated only by
// the coordinator goroutine that owns it.
package domain
