package orchestrator

import (
	"testing"
	"time"

	"go.uber.org/zap"

	catalogmemory "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/catalog/memory"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/metrics/noop"
	sinkmemory "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/sink/memory"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

func intPtr(n int64) *int64 { return &n }

// newTestCatalog builds a small catalog covering the parameter types
// and MITRE tags the tests exercise
func newTestCatalog(t *testing.T) *catalogmemory.Catalog {
	t.Helper()

	c := catalogmemory.NewCatalog()
	templates := []domain.EventTemplate{
		{
			ID:       "logon-success",
			Name:     "Successful Logon",
			Category: domain.EventCategorySecurity,
			Provider: "Microsoft-Windows-Security-Auditing",
			EventID:  4624,
			ParameterSchema: map[string]domain.ParameterSpec{
				"username":   {Type: domain.ParameterTypeString, Required: true},
				"logon_type": {Type: domain.ParameterTypeInt, MinValue: intPtr(2), MaxValue: intPtr(11)},
				"elevated":   {Type: domain.ParameterTypeBool},
			},
			MitreTechniques: []string{"T1078"},
		},
		{
			ID:       "logon-failure",
			Name:     "Failed Logon",
			Category: domain.EventCategorySecurity,
			Provider: "Microsoft-Windows-Security-Auditing",
			EventID:  4625,
			ParameterSchema: map[string]domain.ParameterSpec{
				"username":  {Type: domain.ParameterTypeString, Required: true},
				"source_ip": {Type: domain.ParameterTypeString},
			},
			MitreTechniques: []string{"T1110"},
		},
		{
			ID:       "service-install",
			Name:     "Service Installed",
			Category: domain.EventCategorySystem,
			Provider: "Service Control Manager",
			EventID:  7045,
			ParameterSchema: map[string]domain.ParameterSpec{
				"service_name": {Type: domain.ParameterTypeString, Required: true},
				"start_type": {
					Type:          domain.ParameterTypeString,
					AllowedValues: []string{"auto", "demand", "disabled"},
				},
			},
			MitreTechniques: []string{"T1543.003"},
		},
	}
	for i := range templates {
		if err := c.Register(&templates[i]); err != nil {
			t.Fatalf("register template %s: %v", templates[i].ID, err)
		}
	}
	return c
}

// event is shorthand for a minimal valid scenario event
func event(localID, templateID string, params map[string]interface{}) domain.ScenarioEvent {
	return domain.ScenarioEvent{
		LocalID:    localID,
		TemplateID: templateID,
		Parameters: params,
	}
}

func testScenario(id string, events ...domain.ScenarioEvent) *domain.ScenarioDefinition {
	return &domain.ScenarioDefinition{
		ID:      id,
		Version: 1,
		Name:    "test scenario " + id,
		Events:  events,
	}
}

// newTestCoordinator wires a coordinator against the in-memory sink
func newTestCoordinator(t *testing.T) (*Coordinator, *sinkmemory.Sink) {
	t.Helper()
	sink := sinkmemory.NewSink()
	broker := NewProgressBroker(zap.NewNop())
	c := NewCoordinator(newTestCatalog(t), sink, broker, noop.NewCollector(), zap.NewNop())
	return c, sink
}

// mustPlan builds the execution plan for a scenario, failing the test
// on any validation defect
func mustPlan(t *testing.T, scenario *domain.ScenarioDefinition) *domain.ExecutionPlan {
	t.Helper()
	graph, result := BuildGraph(scenario.Events)
	if graph == nil {
		t.Fatalf("BuildGraph failed: %v", result.Violations)
	}
	plan, err := BuildPlan(scenario, graph)
	if err != nil {
		t.Fatalf("BuildPlan failed: %v", err)
	}
	return plan
}

// fastOptions runs without real-time waiting
func fastOptions() domain.ExecutionOptions {
	opts := domain.DefaultExecutionOptions()
	opts.DelayMultiplier = 0
	return opts
}

// awaitTerminal waits for the scenario's run to finish and returns
// the terminal result
func awaitTerminal(t *testing.T, c *Coordinator, scenarioID string) *domain.ExecutionResult {
	t.Helper()

	deadline := time.After(5 * time.Second)
	done := make(chan struct{})
	go func() {
		c.Wait(scenarioID)
		close(done)
	}()
	select {
	case <-done:
	case <-deadline:
		t.Fatalf("execution of %s did not finish in time", scenarioID)
	}

	result, err := c.Result(scenarioID)
	if err != nil {
		t.Fatalf("Result(%s): %v", scenarioID, err)
	}
	return result
}
