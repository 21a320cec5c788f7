package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/ports"
)

// Service is the engine's public surface: scenario CRUD with
// validation gating every store write, and execution control
// delegated to the coordinator.
type Service struct {
	store       ports.ScenarioStore
	catalog     ports.TemplateCatalog
	validator   *Validator
	coordinator *Coordinator
	metrics     ports.MetricsCollector
	logger      *zap.Logger

	defaultValidation ValidationOptions
}

// NewService creates the scenario service
func NewService(
	store ports.ScenarioStore,
	catalog ports.TemplateCatalog,
	validator *Validator,
	coordinator *Coordinator,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	defaultValidation ValidationOptions,
) *Service {
	return &Service{
		store:             store,
		catalog:           catalog,
		validator:         validator,
		coordinator:       coordinator,
		metrics:           metrics,
		logger:            logger,
		defaultValidation: defaultValidation,
	}
}

// CreateScenario validates and persists a new scenario. A failed
// validation rejects the write entirely; the store is never left with
// a partial definition.
func (s *Service) CreateScenario(ctx context.Context, scenario *domain.ScenarioDefinition) (string, int, error) {
	result := s.validator.ValidateScenario(scenario, s.defaultValidation)
	s.metrics.RecordValidation(result.Valid())
	if !result.Valid() {
		s.logger.Info("scenario rejected",
			zap.String("scenario_id", scenario.ID),
			zap.Int("violations", len(result.Violations)))
		return "", 0, &domain.ValidationError{Result: result}
	}

	id, version, err := s.store.Save(ctx, scenario)
	if err != nil {
		return "", 0, fmt.Errorf("save scenario: %w", err)
	}
	s.metrics.RecordScenarioSaved()

	s.logger.Info("scenario created",
		zap.String("scenario_id", id),
		zap.Int("version", version),
		zap.String("name", scenario.Name),
		zap.Int("events", len(scenario.Events)),
		zap.Int("warnings", len(result.Warnings)))
	return id, version, nil
}

// UpdateScenario validates and persists an edit as a new version.
// Stored versions are immutable; nothing is overwritten.
func (s *Service) UpdateScenario(ctx context.Context, scenario *domain.ScenarioDefinition) (int, error) {
	if scenario.ID == "" {
		return 0, fmt.Errorf("update scenario: id is required")
	}
	if _, err := s.store.Load(ctx, scenario.ID, 0); err != nil {
		return 0, fmt.Errorf("update scenario %s: %w", scenario.ID, err)
	}

	result := s.validator.ValidateScenario(scenario, s.defaultValidation)
	s.metrics.RecordValidation(result.Valid())
	if !result.Valid() {
		return 0, &domain.ValidationError{Result: result}
	}

	_, version, err := s.store.Save(ctx, scenario)
	if err != nil {
		return 0, fmt.Errorf("save scenario %s: %w", scenario.ID, err)
	}
	s.metrics.RecordScenarioSaved()

	s.logger.Info("scenario updated",
		zap.String("scenario_id", scenario.ID),
		zap.Int("version", version))
	return version, nil
}

// DeleteScenario removes every version of a scenario. It refuses to
// delete while an execution is in flight.
func (s *Service) DeleteScenario(ctx context.Context, scenarioID string) (bool, error) {
	if s.coordinator.IsRunning(scenarioID) {
		return false, &domain.ConflictError{
			Reason:     domain.ConflictScenarioCurrentlyExecuting,
			ScenarioID: scenarioID,
		}
	}

	deleted, err := s.store.Delete(ctx, scenarioID)
	if err != nil {
		return false, fmt.Errorf("delete scenario %s: %w", scenarioID, err)
	}
	if deleted {
		s.logger.Info("scenario deleted", zap.String("scenario_id", scenarioID))
	}
	return deleted, nil
}

// GetScenario loads one scenario, latest version when version is 0
func (s *Service) GetScenario(ctx context.Context, scenarioID string, version int) (*domain.ScenarioDefinition, error) {
	return s.store.Load(ctx, scenarioID, version)
}

// ListScenarios returns the latest version of every stored scenario
func (s *Service) ListScenarios(ctx context.Context) ([]*domain.ScenarioDefinition, error) {
	return s.store.List(ctx)
}

// ValidateScenario runs validation without persisting anything
func (s *Service) ValidateScenario(scenario *domain.ScenarioDefinition, opts ValidationOptions) *domain.ValidationResult {
	result := s.validator.ValidateScenario(scenario, opts)
	s.metrics.RecordValidation(result.Valid())
	return result
}

// ExecuteScenario resolves, optionally re-validates, plans, and
// launches an asynchronous execution, returning its execution ID.
// The per-scenario mutual exclusion is enforced by the coordinator.
func (s *Service) ExecuteScenario(ctx context.Context, scenarioID string, opts domain.ExecutionOptions) (string, error) {
	scenario, err := s.store.Load(ctx, scenarioID, opts.Version)
	if err != nil {
		return "", fmt.Errorf("resolve scenario %s: %w", scenarioID, err)
	}

	if opts.ValidateBeforeExecution {
		result := s.validator.ValidateScenario(scenario, s.defaultValidation)
		s.metrics.RecordValidation(result.Valid())
		if !result.Valid() {
			return "", &domain.ValidationError{Result: result}
		}
	}

	graph, graphResult := BuildGraph(scenario.Events)
	if graph == nil {
		return "", &domain.ValidationError{Result: graphResult}
	}

	plan, err := BuildPlan(scenario, graph)
	if err != nil {
		return "", fmt.Errorf("plan scenario %s: %w", scenarioID, err)
	}

	return s.coordinator.Start(plan, opts)
}

// CancelExecution requests cancellation of a scenario's in-flight run
func (s *Service) CancelExecution(scenarioID string) error {
	return s.coordinator.Cancel(scenarioID)
}

// ExecutionState returns the live or last archived execution state
func (s *Service) ExecutionState(scenarioID string) (*domain.ExecutionState, error) {
	return s.coordinator.State(scenarioID)
}

// ExecutionResult returns the terminal summary of the last run
func (s *Service) ExecutionResult(scenarioID string) (*domain.ExecutionResult, error) {
	return s.coordinator.Result(scenarioID)
}

// AwaitExecution blocks until the scenario's in-flight run reaches a
// terminal state or the context expires. Intended for automation that
// wants synchronous semantics on top of ExecuteScenario.
func (s *Service) AwaitExecution(ctx context.Context, scenarioID string) (*domain.ExecutionResult, error) {
	done := make(chan struct{})
	go func() {
		s.coordinator.Wait(scenarioID)
		close(done)
	}()

	select {
	case <-done:
		return s.coordinator.Result(scenarioID)
	case <-ctx.Done():
		return nil, fmt.Errorf("await scenario %s: %w", scenarioID, ctx.Err())
	}
}

// Templates exposes the catalog for API listing
func (s *Service) Templates() []*domain.EventTemplate {
	return s.catalog.ListTemplates()
}

// Template returns one template by ID
func (s *Service) Template(templateID string) (*domain.EventTemplate, error) {
	return s.catalog.GetTemplate(templateID)
}
