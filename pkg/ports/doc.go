// Package ports declares the collaborator interfaces the engine is
// wired against: template catalog, scenario store, log sink, progress
// sink, and metrics. Adapters under pkg/adapters implement them.
package ports
