package domain

import "time"

// Dependency gates an event on the completion of an earlier event.
// When RequiredOutcome is empty any completed outcome satisfies it.
type Dependency struct {
	LocalID         string  `json:"local_id"`
	RequiredOutcome Outcome `json:"required_outcome,omitempty"`
}

// Condition is a predicate over a prior event's recorded outcome.
// The event is dispatched only when the referenced event finished
// with exactly the given outcome; otherwise it is marked Skipped.
type Condition struct {
	LocalID string  `json:"local_id"`
	Outcome Outcome `json:"outcome"`
}

// ScenarioEvent is one entry in a scenario's ordered event list.
// DependsOn and Condition may only reference localIds defined
// earlier in authoring order.
type ScenarioEvent struct {
	LocalID    string                 `json:"local_id"`
	TemplateID string                 `json:"template_id"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Delay      time.Duration          `json:"delay"`
	DependsOn  []Dependency           `json:"depends_on,omitempty"`
	Condition  *Condition             `json:"condition,omitempty"`
}

// ScenarioDefinition is a named, versioned sequence of events.
// Identity is (ID, Version); a definition is immutable once saved
// and edits produce a new version.
type ScenarioDefinition struct {
	ID          string            `json:"id"`
	Version     int               `json:"version"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Events      []ScenarioEvent   `json:"events"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Clone returns a deep copy so stored versions can never be mutated
// through a caller's reference.
func (s *ScenarioDefinition) Clone() *ScenarioDefinition {
	if s == nil {
		return nil
	}
	out := *s
	out.Events = make([]ScenarioEvent, len(s.Events))
	for i, ev := range s.Events {
		copied := ev
		if ev.Parameters != nil {
			copied.Parameters = make(map[string]interface{}, len(ev.Parameters))
			for k, v := range ev.Parameters {
				copied.Parameters[k] = v
			}
		}
		if ev.DependsOn != nil {
			copied.DependsOn = append([]Dependency(nil), ev.DependsOn...)
		}
		if ev.Condition != nil {
			cond := *ev.Condition
			copied.Condition = &cond
		}
		out.Events[i] = copied
	}
	if s.Metadata != nil {
		out.Metadata = make(map[string]string, len(s.Metadata))
		for k, v := range s.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
