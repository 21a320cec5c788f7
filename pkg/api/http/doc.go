// Package http provides the HTTP REST API implementation.
//
// The HTTP server exposes endpoints for:
//   - Template catalog browsing
//   - Scenario creation, versioned updates, and deletion
//   - Execution launch, cancellation, and state queries
//   - Health checks
//   - Prometheus metrics
package http
