package domain

// EventCategory classifies an event template by log channel
type EventCategory string

const (
	EventCategorySecurity    EventCategory = "Security"
	EventCategorySystem      EventCategory = "System"
	EventCategoryApplication EventCategory = "Application"
)

// ParameterType is the value type accepted for a template parameter
type ParameterType string

const (
	ParameterTypeString ParameterType = "string"
	ParameterTypeInt    ParameterType = "int"
	ParameterTypeBool   ParameterType = "bool"
)

// ParameterSpec constrains a single template parameter
type ParameterSpec struct {
	Type          ParameterType `json:"type"`
	Required      bool          `json:"required"`
	AllowedValues []string      `json:"allowed_values,omitempty"`
	MinValue      *int64        `json:"min_value,omitempty"`
	MaxValue      *int64        `json:"max_value,omitempty"`
}

// EventTemplate is an immutable definition of one event kind.
// Templates are owned by the catalog; scenarios reference them by ID
// and never copy them.
type EventTemplate struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description"`
	Category        EventCategory            `json:"category"`
	Provider        string                   `json:"provider"`
	EventID         int                      `json:"event_id"`
	ParameterSchema map[string]ParameterSpec `json:"parameter_schema"`
	MitreTechniques []string                 `json:"mitre_techniques,omitempty"`
}
