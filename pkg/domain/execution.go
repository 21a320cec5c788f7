package domain

import "time"

// ExecutionStatus represents the lifecycle state of one execution
type ExecutionStatus string

const (
	ExecutionStatusPending    ExecutionStatus = "Pending"
	ExecutionStatusRunning    ExecutionStatus = "Running"
	ExecutionStatusCancelling ExecutionStatus = "Cancelling"
	ExecutionStatusCompleted  ExecutionStatus = "Completed"
	ExecutionStatusFailed     ExecutionStatus = "Failed"
	ExecutionStatusCancelled  ExecutionStatus = "Cancelled"
)

// Terminal reports whether the status is a final state
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed || s == ExecutionStatusCancelled
}

// Outcome is the recorded result of one dispatched event
type Outcome string

const (
	OutcomeSuccess Outcome = "Success"
	OutcomeFailure Outcome = "Failure"
	OutcomeSkipped Outcome = "Skipped"
)

// PlanStep pairs a scenario event with its scheduled offset from
// execution start. Conditional steps carry their predicate into the
// dispatch loop, where it is evaluated against actual outcomes.
type PlanStep struct {
	Event           ScenarioEvent `json:"event"`
	ScheduledOffset time.Duration `json:"scheduled_offset"`
	Conditional     bool          `json:"conditional"`
}

// ExecutionPlan is the ordered dispatch sequence derived from one
// scenario version. It is ephemeral: owned by a single execution and
// discarded at completion.
type ExecutionPlan struct {
	ScenarioID string     `json:"scenario_id"`
	Version    int        `json:"version"`
	Steps      []PlanStep `json:"steps"`
}

// ExecutionState is the mutable per-execution record. It is written
// only by the owning coordinator goroutine; readers get copies.
type ExecutionState struct {
	ExecutionID     string             `json:"execution_id"`
	ScenarioID      string             `json:"scenario_id"`
	Version         int                `json:"version"`
	Status          ExecutionStatus    `json:"status"`
	TotalEvents     int                `json:"total_events"`
	EventsCompleted int                `json:"events_completed"`
	EventsFailed    int                `json:"events_failed"`
	EventsSkipped   int                `json:"events_skipped"`
	Outcomes        map[string]Outcome `json:"outcomes"`
	StartedAt       time.Time          `json:"started_at"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	FirstError      string             `json:"first_error,omitempty"`
	LastError       string             `json:"last_error,omitempty"`
}

// ExecutionResult is the terminal summary of one execution
type ExecutionResult struct {
	ExecutionID     string        `json:"execution_id"`
	ScenarioID      string        `json:"scenario_id"`
	Version         int           `json:"version"`
	Status          ExecutionStatus `json:"status"`
	TotalEvents     int           `json:"total_events"`
	EventsGenerated int           `json:"events_generated"`
	EventsFailed    int           `json:"events_failed"`
	EventsSkipped   int           `json:"events_skipped"`
	Duration        time.Duration `json:"duration"`
	Success         bool          `json:"success"`
	Cancelled       bool          `json:"cancelled"`
	FirstError      string        `json:"first_error,omitempty"`
}

// ExecutionOptions select per-run policy. Callers should start from
// DefaultExecutionOptions; the zero value of DelayMultiplier would
// otherwise collapse all inter-event delays.
type ExecutionOptions struct {
	// Version pins a scenario version; 0 resolves the latest.
	Version int `json:"version,omitempty"`

	ValidateBeforeExecution bool `json:"validate_before_execution"`
	ContinueOnError         bool `json:"continue_on_error"`

	// DelayMultiplier scales every inter-event wait. A multiplier of 0
	// removes waiting entirely but never reorders dispatch.
	DelayMultiplier float64 `json:"delay_multiplier"`

	// ExecutionTimeout bounds the whole run; 0 means unbounded.
	ExecutionTimeout time.Duration `json:"execution_timeout,omitempty"`
}

// DefaultExecutionOptions returns real-time execution with validation
func DefaultExecutionOptions() ExecutionOptions {
	return ExecutionOptions{
		ValidateBeforeExecution: true,
		DelayMultiplier:         1.0,
	}
}

// Progress is a one-way, non-blocking notification emitted after
// every dispatch. EventsCompleted is strictly increasing within one
// execution and at most one notification is sent per event.
type Progress struct {
	ExecutionID     string    `json:"execution_id"`
	ScenarioID      string    `json:"scenario_id"`
	Phase           string    `json:"phase"`
	EventsCompleted int       `json:"events_completed"`
	EventsFailed    int       `json:"events_failed"`
	EventsSkipped   int       `json:"events_skipped"`
	TotalEvents     int       `json:"total_events"`
	LastError       string    `json:"last_error,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// RenderedEvent is a template instantiated with concrete parameters,
// ready for the log sink. How the sink encodes it is outside the
// engine's concern.
type RenderedEvent struct {
	ExecutionID     string                 `json:"execution_id"`
	ScenarioID      string                 `json:"scenario_id"`
	LocalID         string                 `json:"local_id"`
	TemplateID      string                 `json:"template_id"`
	EventID         int                    `json:"event_id"`
	Provider        string                 `json:"provider"`
	Category        EventCategory          `json:"category"`
	Timestamp       time.Time              `json:"timestamp"`
	Parameters      map[string]interface{} `json:"parameters,omitempty"`
	MitreTechniques []string               `json:"mitre_techniques,omitempty"`
}
