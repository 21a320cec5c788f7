package orchestrator

import (
	"testing"

	catalogmemory "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/catalog/memory"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

func strictOptions() ValidationOptions {
	return ValidationOptions{StrictTemplateValidation: true, ValidateMitreReferences: true}
}

func TestValidateScenario_Valid(t *testing.T) {
	v := NewValidator(newTestCatalog(t))
	scenario := testScenario("s1",
		event("a", "logon-success", map[string]interface{}{"username": "alice"}),
		domain.ScenarioEvent{
			LocalID:    "b",
			TemplateID: "logon-failure",
			Parameters: map[string]interface{}{"username": "alice"},
			DependsOn:  []domain.Dependency{{LocalID: "a"}},
		},
	)

	result := v.ValidateScenario(scenario, strictOptions())
	if !result.Valid() {
		t.Errorf("expected valid scenario, got %v", result.Violations)
	}
}

func TestValidateScenario_MissingNameAndEvents(t *testing.T) {
	v := NewValidator(newTestCatalog(t))
	result := v.ValidateScenario(&domain.ScenarioDefinition{ID: "s1"}, strictOptions())

	if result.Valid() {
		t.Fatal("expected violations for empty scenario")
	}
	if len(result.Violations) < 2 {
		t.Errorf("expected name and events violations, got %v", result.Violations)
	}
}

func TestValidateScenario_UnknownTemplate(t *testing.T) {
	v := NewValidator(newTestCatalog(t))
	scenario := testScenario("s1", event("a", "no-such-template", nil))

	result := v.ValidateScenario(scenario, strictOptions())
	if !result.Has(domain.ViolationUnknownTemplate) {
		t.Errorf("expected UnknownTemplate violation, got %v", result.Violations)
	}
}

func TestValidateScenario_RequiredParameterMissing(t *testing.T) {
	v := NewValidator(newTestCatalog(t))
	scenario := testScenario("s1", event("a", "logon-success", nil))

	result := v.ValidateScenario(scenario, strictOptions())
	if !result.Has(domain.ViolationParameterConstraint) {
		t.Errorf("expected ParameterConstraintViolation for missing username, got %v", result.Violations)
	}
}

func TestValidateScenario_ParameterTypeAndRange(t *testing.T) {
	v := NewValidator(newTestCatalog(t))

	cases := []struct {
		name   string
		params map[string]interface{}
		valid  bool
	}{
		{"wrong type for string", map[string]interface{}{"username": 42}, false},
		{"int below minimum", map[string]interface{}{"username": "a", "logon_type": 1}, false},
		{"int above maximum", map[string]interface{}{"username": "a", "logon_type": 99}, false},
		{"int in range", map[string]interface{}{"username": "a", "logon_type": 3}, true},
		{"json number for int", map[string]interface{}{"username": "a", "logon_type": float64(10)}, true},
		{"fractional number for int", map[string]interface{}{"username": "a", "logon_type": 2.5}, false},
		{"wrong type for bool", map[string]interface{}{"username": "a", "elevated": "yes"}, false},
		{"bool ok", map[string]interface{}{"username": "a", "elevated": true}, true},
	}

	for _, tc := range cases {
		scenario := testScenario("s1", event("a", "logon-success", tc.params))
		result := v.ValidateScenario(scenario, strictOptions())
		if result.Valid() != tc.valid {
			t.Errorf("%s: Valid() = %v, want %v (violations: %v)",
				tc.name, result.Valid(), tc.valid, result.Violations)
		}
	}
}

func TestValidateScenario_AllowedValues(t *testing.T) {
	v := NewValidator(newTestCatalog(t))

	good := testScenario("s1", event("a", "service-install",
		map[string]interface{}{"service_name": "evil-svc", "start_type": "auto"}))
	if result := v.ValidateScenario(good, strictOptions()); !result.Valid() {
		t.Errorf("allowed value rejected: %v", result.Violations)
	}

	bad := testScenario("s1", event("a", "service-install",
		map[string]interface{}{"service_name": "evil-svc", "start_type": "bogus"}))
	if result := v.ValidateScenario(bad, strictOptions()); !result.Has(domain.ViolationParameterConstraint) {
		t.Errorf("expected violation for disallowed value, got %v", result.Violations)
	}
}

func TestValidateScenario_UndeclaredParameter(t *testing.T) {
	v := NewValidator(newTestCatalog(t))
	scenario := testScenario("s1", event("a", "logon-success",
		map[string]interface{}{"username": "alice", "mystery": "value"}))

	strict := v.ValidateScenario(scenario, strictOptions())
	if strict.Valid() {
		t.Error("strict validation should reject undeclared parameters")
	}

	tolerant := v.ValidateScenario(scenario, ValidationOptions{ValidateMitreReferences: true})
	if !tolerant.Valid() {
		t.Errorf("tolerant validation should accept undeclared parameters, got %v", tolerant.Violations)
	}
	if len(tolerant.Warnings) == 0 {
		t.Error("tolerant validation should warn about undeclared parameters")
	}
}

func TestValidateScenario_NegativeDelay(t *testing.T) {
	v := NewValidator(newTestCatalog(t))
	scenario := testScenario("s1", domain.ScenarioEvent{
		LocalID:    "a",
		TemplateID: "logon-success",
		Parameters: map[string]interface{}{"username": "alice"},
		Delay:      -1,
	})

	result := v.ValidateScenario(scenario, strictOptions())
	if result.Valid() {
		t.Error("expected violation for negative delay")
	}
}

func TestValidateScenario_MitreReferences(t *testing.T) {
	catalog := catalogmemory.NewCatalog()
	templates := []domain.EventTemplate{
		{ID: "malformed-mitre", Name: "m", Category: domain.EventCategorySecurity, EventID: 1, MitreTechniques: []string{"TA0001"}},
		{ID: "unknown-mitre", Name: "u", Category: domain.EventCategorySecurity, EventID: 2, MitreTechniques: []string{"T9999"}},
		{ID: "known-mitre", Name: "k", Category: domain.EventCategorySecurity, EventID: 3, MitreTechniques: []string{"T1110.001"}},
	}
	for i := range templates {
		if err := catalog.Register(&templates[i]); err != nil {
			t.Fatal(err)
		}
	}
	v := NewValidator(catalog)

	cases := []struct {
		templateID string
		valid      bool
	}{
		{"malformed-mitre", false},
		{"unknown-mitre", false},
		{"known-mitre", true},
	}
	for _, tc := range cases {
		scenario := testScenario("s1", event("a", tc.templateID, nil))
		result := v.ValidateScenario(scenario, strictOptions())
		if result.Valid() != tc.valid {
			t.Errorf("%s: Valid() = %v, want %v (violations: %v)",
				tc.templateID, result.Valid(), tc.valid, result.Violations)
		}
		if !tc.valid && !result.Has(domain.ViolationUnknownMitreTechnique) {
			t.Errorf("%s: expected UnknownMitreTechnique, got %v", tc.templateID, result.Violations)
		}
	}

	// The same templates pass when MITRE checking is off.
	scenario := testScenario("s1", event("a", "malformed-mitre", nil))
	if result := v.ValidateScenario(scenario, ValidationOptions{StrictTemplateValidation: true}); !result.Valid() {
		t.Errorf("MITRE check disabled should pass, got %v", result.Violations)
	}
}

func TestValidateScenario_AggregatesAcrossEvents(t *testing.T) {
	v := NewValidator(newTestCatalog(t))
	scenario := testScenario("s1",
		event("a", "no-such-template", nil),
		event("b", "logon-success", nil),
		domain.ScenarioEvent{LocalID: "c", TemplateID: "logon-failure",
			Parameters: map[string]interface{}{"username": "x"},
			DependsOn:  []domain.Dependency{{LocalID: "ghost"}}},
	)

	result := v.ValidateScenario(scenario, strictOptions())
	if len(result.Violations) < 3 {
		t.Errorf("expected violations from every defective event, got %d: %v",
			len(result.Violations), result.Violations)
	}
	for _, code := range []domain.ViolationCode{
		domain.ViolationUnknownTemplate,
		domain.ViolationParameterConstraint,
		domain.ViolationUnresolvedDependency,
	} {
		if !result.Has(code) {
			t.Errorf("expected %s violation, got %v", code, result.Violations)
		}
	}
}
