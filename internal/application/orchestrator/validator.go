package orchestrator

import (
	"fmt"
	"regexp"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/ports"
)

// ValidationOptions select per-call validation strictness
type ValidationOptions struct {
	// StrictTemplateValidation rejects parameters not declared in the
	// template schema. When false they are reported as warnings and
	// dropped at render time.
	StrictTemplateValidation bool `json:"strict_template_validation"`

	// ValidateMitreReferences checks that every MITRE technique ID
	// declared by a referenced template is well-formed and known.
	ValidateMitreReferences bool `json:"validate_mitre_references"`
}

// mitreTechniquePattern matches technique IDs such as T1110 and T1548.002
var mitreTechniquePattern = regexp.MustCompile(`^T\d{4}(\.\d{3})?$`)

// Validator checks scenario definitions against the template catalog
// and the dependency graph rules. It is stateless and safe for
// concurrent use.
type Validator struct {
	catalog ports.TemplateCatalog
}

// NewValidator creates a new scenario validator
func NewValidator(catalog ports.TemplateCatalog) *Validator {
	return &Validator{catalog: catalog}
}

// ValidateScenario runs every check and aggregates all violations
// rather than failing fast, so authors of large event sets get the
// complete defect list in one pass.
func (v *Validator) ValidateScenario(scenario *domain.ScenarioDefinition, opts ValidationOptions) *domain.ValidationResult {
	result := &domain.ValidationResult{}

	if scenario == nil {
		result.AddViolation(domain.ViolationParameterConstraint, "", "", "scenario is nil")
		return result
	}
	if scenario.Name == "" {
		result.AddViolation(domain.ViolationParameterConstraint, "", "name", "scenario name is required")
	}
	if len(scenario.Events) == 0 {
		result.AddViolation(domain.ViolationParameterConstraint, "", "events", "scenario must have at least one event")
	}

	for i := range scenario.Events {
		v.validateEvent(&scenario.Events[i], opts, result)
	}

	// Structural checks are delegated to the graph builder.
	_, graphResult := BuildGraph(scenario.Events)
	result.Merge(graphResult)

	return result
}

// validateEvent checks one event against its template
func (v *Validator) validateEvent(ev *domain.ScenarioEvent, opts ValidationOptions, result *domain.ValidationResult) {
	if ev.LocalID == "" {
		result.AddViolation(domain.ViolationParameterConstraint, "", "local_id", "event local id is required")
		return
	}
	if ev.Delay < 0 {
		result.AddViolation(domain.ViolationParameterConstraint, ev.LocalID, "delay", "delay must not be negative")
	}

	tmpl, err := v.catalog.GetTemplate(ev.TemplateID)
	if err != nil {
		result.AddViolation(domain.ViolationUnknownTemplate, ev.LocalID, "",
			"template %q is not in the catalog", ev.TemplateID)
		return
	}

	v.validateParameters(ev, tmpl, opts, result)

	if opts.ValidateMitreReferences {
		for _, technique := range tmpl.MitreTechniques {
			if !mitreTechniquePattern.MatchString(technique) {
				result.AddViolation(domain.ViolationUnknownMitreTechnique, ev.LocalID, "",
					"template %q declares malformed MITRE technique %q", tmpl.ID, technique)
				continue
			}
			if !v.catalog.HasTechnique(technique) {
				result.AddViolation(domain.ViolationUnknownMitreTechnique, ev.LocalID, "",
					"template %q declares unknown MITRE technique %q", tmpl.ID, technique)
			}
		}
	}
}

// validateParameters checks presence, type, and constraints of every
// parameter against the template schema
func (v *Validator) validateParameters(ev *domain.ScenarioEvent, tmpl *domain.EventTemplate, opts ValidationOptions, result *domain.ValidationResult) {
	for name, spec := range tmpl.ParameterSchema {
		value, present := ev.Parameters[name]
		if !present {
			if spec.Required {
				result.AddViolation(domain.ViolationParameterConstraint, ev.LocalID, name,
					"required parameter %q is missing", name)
			}
			continue
		}
		if msg := checkParameterValue(value, spec); msg != "" {
			result.AddViolation(domain.ViolationParameterConstraint, ev.LocalID, name, "%s", msg)
		}
	}

	for name := range ev.Parameters {
		if _, declared := tmpl.ParameterSchema[name]; declared {
			continue
		}
		if opts.StrictTemplateValidation {
			result.AddViolation(domain.ViolationParameterConstraint, ev.LocalID, name,
				"parameter %q is not declared by template %q", name, tmpl.ID)
		} else {
			result.AddWarning(domain.ViolationParameterConstraint, ev.LocalID, name,
				"parameter %q is not declared by template %q and will be dropped", name, tmpl.ID)
		}
	}
}

// checkParameterValue validates one value against its spec and
// returns a message describing the defect, or "" when it conforms.
// JSON-decoded numbers arrive as float64 and are accepted for int
// parameters when integral.
func checkParameterValue(value interface{}, spec domain.ParameterSpec) string {
	switch spec.Type {
	case domain.ParameterTypeString:
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("expected string, got %T", value)
		}
		if len(spec.AllowedValues) > 0 {
			for _, allowed := range spec.AllowedValues {
				if s == allowed {
					return ""
				}
			}
			return fmt.Sprintf("value %q is not one of the allowed values", s)
		}
		return ""

	case domain.ParameterTypeInt:
		n, ok := asInt64(value)
		if !ok {
			return fmt.Sprintf("expected integer, got %T", value)
		}
		if spec.MinValue != nil && n < *spec.MinValue {
			return fmt.Sprintf("value %d is below the minimum %d", n, *spec.MinValue)
		}
		if spec.MaxValue != nil && n > *spec.MaxValue {
			return fmt.Sprintf("value %d is above the maximum %d", n, *spec.MaxValue)
		}
		return ""

	case domain.ParameterTypeBool:
		if _, ok := value.(bool); !ok {
			return fmt.Sprintf("expected bool, got %T", value)
		}
		return ""
	}
	return fmt.Sprintf("unsupported parameter type %q", spec.Type)
}

func asInt64(value interface{}) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}
