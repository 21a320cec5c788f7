// Package sink provides log sink implementations.
//
// Implementations:
//   - redis: Redis Streams, one entry per rendered event
//   - memory: recording sink with failure injection for testing
package sink
