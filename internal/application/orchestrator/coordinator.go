package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/ports"
)

// Coordinator drives scenario executions. Each execution runs as one
// goroutine dispatching events strictly in plan order; concurrency is
// across scenarios, never within one. The running registry is the
// sole shared mutable resource: at most one Running execution may
// exist per scenario ID, enforced by a mutex-guarded check-and-set.
type Coordinator struct {
	catalog  ports.TemplateCatalog
	sink     ports.LogSink
	progress ports.ProgressSink
	metrics  ports.MetricsCollector
	logger   *zap.Logger

	mu       sync.Mutex
	running  map[string]*execution              // scenarioID -> in-flight
	archived map[string]*domain.ExecutionState  // scenarioID -> last terminal state
}

// execution is the in-flight record for one run
type execution struct {
	mu     sync.RWMutex
	state  *domain.ExecutionState
	cancel context.CancelFunc
	done   chan struct{}
}

// snapshot returns a copy safe for concurrent readers
func (e *execution) snapshot() *domain.ExecutionState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := *e.state
	out.Outcomes = make(map[string]domain.Outcome, len(e.state.Outcomes))
	for k, v := range e.state.Outcomes {
		out.Outcomes[k] = v
	}
	return &out
}

// NewCoordinator creates a new execution coordinator
func NewCoordinator(
	catalog ports.TemplateCatalog,
	sink ports.LogSink,
	progress ports.ProgressSink,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		catalog:  catalog,
		sink:     sink,
		progress: progress,
		metrics:  metrics,
		logger:   logger,
		running:  make(map[string]*execution),
		archived: make(map[string]*domain.ExecutionState),
	}
}

// Start begins executing a plan asynchronously and returns the
// execution ID. A second call for the same scenario while one is in
// flight fails immediately with AlreadyExecuting; callers must retry
// or inspect the current state, the coordinator never queues.
func (c *Coordinator) Start(plan *domain.ExecutionPlan, opts domain.ExecutionOptions) (string, error) {
	if opts.DelayMultiplier < 0 {
		return "", fmt.Errorf("delay multiplier must not be negative: %f", opts.DelayMultiplier)
	}

	execID := uuid.New().String()
	state := &domain.ExecutionState{
		ExecutionID: execID,
		ScenarioID:  plan.ScenarioID,
		Version:     plan.Version,
		Status:      domain.ExecutionStatusPending,
		TotalEvents: len(plan.Steps),
		Outcomes:    make(map[string]domain.Outcome, len(plan.Steps)),
		StartedAt:   time.Now(),
	}

	runCtx := context.Background()
	var cancel context.CancelFunc
	if opts.ExecutionTimeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, opts.ExecutionTimeout)
	} else {
		runCtx, cancel = context.WithCancel(runCtx)
	}

	exec := &execution{
		state:  state,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	// Atomic check-and-set of the per-scenario running flag.
	c.mu.Lock()
	if _, busy := c.running[plan.ScenarioID]; busy {
		c.mu.Unlock()
		cancel()
		return "", &domain.ConflictError{
			Reason:     domain.ConflictAlreadyExecuting,
			ScenarioID: plan.ScenarioID,
		}
	}
	c.running[plan.ScenarioID] = exec
	c.mu.Unlock()

	c.metrics.IncActiveExecutions()
	c.logger.Info("execution started",
		zap.String("execution_id", execID),
		zap.String("scenario_id", plan.ScenarioID),
		zap.Int("version", plan.Version),
		zap.Int("total_events", len(plan.Steps)),
		zap.Float64("delay_multiplier", opts.DelayMultiplier),
		zap.Bool("continue_on_error", opts.ContinueOnError))

	go c.run(runCtx, exec, plan, opts)

	return execID, nil
}

// Cancel requests cooperative cancellation of a scenario's in-flight
// execution. The in-flight event dispatch, if any, is not interrupted
// mid-call; the next dispatch observes the signal.
func (c *Coordinator) Cancel(scenarioID string) error {
	c.mu.Lock()
	exec, ok := c.running[scenarioID]
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("cancel scenario %s: %w", scenarioID, domain.ErrExecutionNotFound)
	}

	exec.mu.Lock()
	if !exec.state.Status.Terminal() {
		exec.state.Status = domain.ExecutionStatusCancelling
	}
	exec.mu.Unlock()
	exec.cancel()

	c.logger.Info("execution cancellation requested",
		zap.String("scenario_id", scenarioID))
	return nil
}

// State returns the current execution state for a scenario: the live
// state of an in-flight run, or the archived state of the last
// terminal run.
func (c *Coordinator) State(scenarioID string) (*domain.ExecutionState, error) {
	c.mu.Lock()
	exec, ok := c.running[scenarioID]
	archived := c.archived[scenarioID]
	c.mu.Unlock()

	if ok {
		return exec.snapshot(), nil
	}
	if archived != nil {
		out := *archived
		return &out, nil
	}
	return nil, fmt.Errorf("scenario %s: %w", scenarioID, domain.ErrExecutionNotFound)
}

// IsRunning reports whether a scenario has an in-flight execution
func (c *Coordinator) IsRunning(scenarioID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.running[scenarioID]
	return ok
}

// ActiveScenarios returns the scenario IDs with in-flight executions
func (c *Coordinator) ActiveScenarios() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.running))
	for id := range c.running {
		out = append(out, id)
	}
	return out
}

// Wait blocks until the scenario's in-flight execution finishes.
// A scenario with no in-flight execution returns immediately.
func (c *Coordinator) Wait(scenarioID string) {
	c.mu.Lock()
	exec, ok := c.running[scenarioID]
	c.mu.Unlock()
	if ok {
		<-exec.done
	}
}

// Shutdown cancels every in-flight execution and waits for them to
// finish, bounded by ctx.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	execs := make([]*execution, 0, len(c.running))
	for _, exec := range c.running {
		execs = append(execs, exec)
	}
	c.mu.Unlock()

	for _, exec := range execs {
		exec.cancel()
	}
	for _, exec := range execs {
		select {
		case <-exec.done:
		case <-ctx.Done():
			return fmt.Errorf("coordinator shutdown: %w", ctx.Err())
		}
	}

	c.logger.Info("coordinator shut down", zap.Int("cancelled_executions", len(execs)))
	return nil
}

// run owns the execution from first dispatch to terminal state. The
// running flag is released in a defer so every exit path, including
// panic inside a dispatch, clears it.
func (c *Coordinator) run(ctx context.Context, exec *execution, plan *domain.ExecutionPlan, opts domain.ExecutionOptions) {
	start := time.Now()
	cancelled := false
	failedFast := false

	defer func() {
		c.finish(exec, plan, start, cancelled, failedFast)
	}()

	exec.mu.Lock()
	exec.state.Status = domain.ExecutionStatusRunning
	exec.mu.Unlock()

	for i := range plan.Steps {
		step := &plan.Steps[i]

		// Cancellation is checked before each dispatch.
		if ctx.Err() != nil {
			cancelled = true
			c.skipRemaining(exec, plan, i)
			return
		}

		if !c.waitUntil(ctx, start, step.ScheduledOffset, opts.DelayMultiplier) {
			cancelled = true
			c.skipRemaining(exec, plan, i)
			return
		}

		outcome, dispatchErr := c.dispatch(ctx, exec, step, opts)

		exec.mu.Lock()
		exec.state.Outcomes[step.Event.LocalID] = outcome
		switch outcome {
		case domain.OutcomeSuccess:
			exec.state.EventsCompleted++
		case domain.OutcomeFailure:
			exec.state.EventsFailed++
			exec.state.LastError = dispatchErr.Error()
			if exec.state.FirstError == "" {
				exec.state.FirstError = dispatchErr.Error()
			}
		case domain.OutcomeSkipped:
			exec.state.EventsSkipped++
		}
		progress := domain.Progress{
			ExecutionID:     exec.state.ExecutionID,
			ScenarioID:      exec.state.ScenarioID,
			Phase:           "dispatching",
			EventsCompleted: exec.state.EventsCompleted,
			EventsFailed:    exec.state.EventsFailed,
			EventsSkipped:   exec.state.EventsSkipped,
			TotalEvents:     exec.state.TotalEvents,
			LastError:       exec.state.LastError,
			Timestamp:       time.Now(),
		}
		exec.mu.Unlock()

		// Exactly one notification per event, after its outcome is
		// recorded and before any gated event can dispatch.
		c.progress.Notify(progress)

		if outcome == domain.OutcomeFailure && !opts.ContinueOnError {
			failedFast = true
			c.skipRemaining(exec, plan, i+1)
			return
		}
	}
}

// waitUntil suspends until the step's scaled offset has elapsed.
// Returns false when cancelled during the wait. The multiplier only
// shrinks or stretches waits; it never reorders dispatch, and a
// multiplier of 0 removes waiting entirely.
func (c *Coordinator) waitUntil(ctx context.Context, start time.Time, offset time.Duration, multiplier float64) bool {
	target := time.Duration(float64(offset) * multiplier)
	remaining := target - time.Since(start)
	if remaining <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// dispatch renders and writes one event, or skips it. An unmet hard
// dependency force-skips the dependent rather than dispatching it;
// a false condition likewise yields Skipped, never Failure.
func (c *Coordinator) dispatch(ctx context.Context, exec *execution, step *domain.PlanStep, opts domain.ExecutionOptions) (domain.Outcome, error) {
	ev := &step.Event

	exec.mu.RLock()
	unmet := unmetDependency(ev, exec.state.Outcomes)
	conditionHolds := step.Conditional && exec.state.Outcomes[ev.Condition.LocalID] == ev.Condition.Outcome
	exec.mu.RUnlock()

	if unmet != "" {
		c.logger.Debug("event force-skipped, dependency unmet",
			zap.String("scenario_id", exec.state.ScenarioID),
			zap.String("local_id", ev.LocalID),
			zap.String("dependency", unmet))
		return domain.OutcomeSkipped, nil
	}
	if step.Conditional && !conditionHolds {
		c.logger.Debug("event skipped, condition false",
			zap.String("scenario_id", exec.state.ScenarioID),
			zap.String("local_id", ev.LocalID),
			zap.String("condition_ref", ev.Condition.LocalID))
		return domain.OutcomeSkipped, nil
	}

	rendered, err := c.render(exec.state, ev)
	if err != nil {
		c.metrics.RecordEventDispatched("", string(domain.OutcomeFailure), 0)
		return domain.OutcomeFailure, err
	}

	dispatchStart := time.Now()
	err = c.sink.Write(ctx, rendered)
	duration := time.Since(dispatchStart)

	if err != nil {
		c.metrics.RecordEventDispatched(string(rendered.Category), string(domain.OutcomeFailure), duration)
		c.logger.Warn("event dispatch failed",
			zap.String("scenario_id", exec.state.ScenarioID),
			zap.String("local_id", ev.LocalID),
			zap.String("template_id", ev.TemplateID),
			zap.Error(err))
		return domain.OutcomeFailure, fmt.Errorf("event %s: sink write failed: %w", ev.LocalID, err)
	}

	c.metrics.RecordEventDispatched(string(rendered.Category), string(domain.OutcomeSuccess), duration)
	return domain.OutcomeSuccess, nil
}

// render instantiates the event's template with its parameters.
// Parameters outside the template schema are dropped here; tolerant
// validation has already flagged them as warnings.
func (c *Coordinator) render(state *domain.ExecutionState, ev *domain.ScenarioEvent) (*domain.RenderedEvent, error) {
	tmpl, err := c.catalog.GetTemplate(ev.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("event %s: resolve template %q: %w", ev.LocalID, ev.TemplateID, err)
	}

	params := make(map[string]interface{}, len(ev.Parameters))
	for name, value := range ev.Parameters {
		if _, declared := tmpl.ParameterSchema[name]; declared {
			params[name] = value
		}
	}

	return &domain.RenderedEvent{
		ExecutionID:     state.ExecutionID,
		ScenarioID:      state.ScenarioID,
		LocalID:         ev.LocalID,
		TemplateID:      tmpl.ID,
		EventID:         tmpl.EventID,
		Provider:        tmpl.Provider,
		Category:        tmpl.Category,
		Timestamp:       time.Now(),
		Parameters:      params,
		MitreTechniques: tmpl.MitreTechniques,
	}, nil
}

// unmetDependency returns the localID of the first dependency that is
// not satisfied: a predecessor that did not complete successfully
// against its required outcome, or was skipped. Returns "" when all
// dependencies hold.
func unmetDependency(ev *domain.ScenarioEvent, outcomes map[string]domain.Outcome) string {
	for _, dep := range ev.DependsOn {
		outcome, recorded := outcomes[dep.LocalID]
		if !recorded || outcome == domain.OutcomeSkipped {
			return dep.LocalID
		}
		if dep.RequiredOutcome != "" && outcome != dep.RequiredOutcome {
			return dep.LocalID
		}
	}
	return ""
}

// skipRemaining marks every not-yet-dispatched step Skipped, starting
// at index from. Skips are not errors and never count against failure
// thresholds.
func (c *Coordinator) skipRemaining(exec *execution, plan *domain.ExecutionPlan, from int) {
	exec.mu.Lock()
	defer exec.mu.Unlock()
	for i := from; i < len(plan.Steps); i++ {
		localID := plan.Steps[i].Event.LocalID
		if _, recorded := exec.state.Outcomes[localID]; recorded {
			continue
		}
		exec.state.Outcomes[localID] = domain.OutcomeSkipped
		exec.state.EventsSkipped++
	}
}

// finish records the terminal state, archives it, emits the final
// progress notification, and releases the running flag. Release is
// unconditional: it happens on completion, failure, cancellation,
// timeout, and panic alike.
func (c *Coordinator) finish(exec *execution, plan *domain.ExecutionPlan, start time.Time, cancelled, failedFast bool) {
	duration := time.Since(start)
	now := time.Now()

	exec.mu.Lock()
	switch {
	case cancelled:
		exec.state.Status = domain.ExecutionStatusCancelled
	case failedFast:
		exec.state.Status = domain.ExecutionStatusFailed
	default:
		exec.state.Status = domain.ExecutionStatusCompleted
	}
	exec.state.CompletedAt = &now
	terminal := exec.snapshotLocked()
	exec.mu.Unlock()

	c.mu.Lock()
	c.archived[plan.ScenarioID] = terminal
	delete(c.running, plan.ScenarioID)
	c.mu.Unlock()

	exec.cancel()
	close(exec.done)

	c.metrics.DecActiveExecutions()
	c.metrics.RecordScenarioExecution(string(terminal.Status), duration)

	c.progress.Notify(domain.Progress{
		ExecutionID:     terminal.ExecutionID,
		ScenarioID:      terminal.ScenarioID,
		Phase:           string(terminal.Status),
		EventsCompleted: terminal.EventsCompleted,
		EventsFailed:    terminal.EventsFailed,
		EventsSkipped:   terminal.EventsSkipped,
		TotalEvents:     terminal.TotalEvents,
		LastError:       terminal.LastError,
		Timestamp:       now,
	})

	c.logger.Info("execution finished",
		zap.String("execution_id", terminal.ExecutionID),
		zap.String("scenario_id", terminal.ScenarioID),
		zap.String("status", string(terminal.Status)),
		zap.Int("completed", terminal.EventsCompleted),
		zap.Int("failed", terminal.EventsFailed),
		zap.Int("skipped", terminal.EventsSkipped),
		zap.Duration("duration", duration))
}

// snapshotLocked copies the state; caller holds exec.mu
func (e *execution) snapshotLocked() *domain.ExecutionState {
	out := *e.state
	out.Outcomes = make(map[string]domain.Outcome, len(e.state.Outcomes))
	for k, v := range e.state.Outcomes {
		out.Outcomes[k] = v
	}
	return &out
}

// Result builds the terminal summary for a scenario's last execution
func (c *Coordinator) Result(scenarioID string) (*domain.ExecutionResult, error) {
	state, err := c.State(scenarioID)
	if err != nil {
		return nil, err
	}
	if !state.Status.Terminal() {
		return nil, fmt.Errorf("scenario %s: execution still %s", scenarioID, state.Status)
	}

	var duration time.Duration
	if state.CompletedAt != nil {
		duration = state.CompletedAt.Sub(state.StartedAt)
	}

	return &domain.ExecutionResult{
		ExecutionID:     state.ExecutionID,
		ScenarioID:      state.ScenarioID,
		Version:         state.Version,
		Status:          state.Status,
		TotalEvents:     state.TotalEvents,
		EventsGenerated: state.EventsCompleted,
		EventsFailed:    state.EventsFailed,
		EventsSkipped:   state.EventsSkipped,
		Duration:        duration,
		// A run that completed is successful: fail-fast failures end
		// in Failed, tolerated failures under continue-on-error are
		// handled by definition, and cancellation is never success.
		Success:    state.Status == domain.ExecutionStatusCompleted,
		Cancelled:  state.Status == domain.ExecutionStatusCancelled,
		FirstError: state.FirstError,
	}, nil
}
