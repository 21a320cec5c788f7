// Package storage provides scenario store implementations.
//
// Implementations:
//   - redis: immutable versioned JSON values with a per-ID counter
//   - memory: in-memory copy-on-write versions for testing
package storage
