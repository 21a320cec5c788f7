package ports

import (
	"context"
	"time"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

// TemplateCatalog is the immutable event template lookup. The engine
// consumes it; it never writes to it.
type TemplateCatalog interface {
	// GetTemplate returns the template or domain.ErrTemplateNotFound.
	GetTemplate(templateID string) (*domain.EventTemplate, error)

	// ListTemplates returns all registered templates.
	ListTemplates() []*domain.EventTemplate

	// HasTechnique reports whether a MITRE ATT&CK technique ID is known.
	HasTechnique(techniqueID string) bool
}

// ScenarioStore is the external persistence layer for scenario
// definitions. Versions are copy-on-write: Save never overwrites an
// existing (id, version) pair.
type ScenarioStore interface {
	// Load returns the given version, or the latest when version is 0.
	// Returns domain.ErrScenarioNotFound when absent.
	Load(ctx context.Context, scenarioID string, version int) (*domain.ScenarioDefinition, error)

	// Save persists the definition under the next version for its ID
	// and returns (id, newVersion).
	Save(ctx context.Context, scenario *domain.ScenarioDefinition) (string, int, error)

	// Delete removes all versions of a scenario. Reports whether
	// anything was deleted.
	Delete(ctx context.Context, scenarioID string) (bool, error)

	// List returns the latest version of every stored scenario.
	List(ctx context.Context) ([]*domain.ScenarioDefinition, error)
}

// LogSink writes one rendered event. The engine treats it as opaque,
// possibly slow and possibly failing; it does not retry internally.
// Implementations must honor ctx so no dispatch blocks indefinitely.
type LogSink interface {
	Write(ctx context.Context, event *domain.RenderedEvent) error
}

// ProgressSink receives execution progress notifications. Notify must
// never block: a slow or absent observer must not stall dispatch.
type ProgressSink interface {
	Notify(p domain.Progress)
}

// MetricsCollector records engine metrics
type MetricsCollector interface {
	RecordScenarioExecution(status string, duration time.Duration)
	RecordEventDispatched(category, outcome string, duration time.Duration)
	RecordValidation(valid bool)
	RecordScenarioSaved()
	IncActiveExecutions()
	DecActiveExecutions()
}
