package orchestrator

import (
	"reflect"
	"testing"
	"time"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

func planOrder(plan *domain.ExecutionPlan) []string {
	out := make([]string, len(plan.Steps))
	for i, step := range plan.Steps {
		out[i] = step.Event.LocalID
	}
	return out
}

func TestBuildPlan_DependencyOrder(t *testing.T) {
	scenario := testScenario("s1",
		event("a", "logon-success", nil),
		domain.ScenarioEvent{LocalID: "b", TemplateID: "logon-failure", DependsOn: []domain.Dependency{{LocalID: "a"}}},
		domain.ScenarioEvent{LocalID: "c", TemplateID: "service-install", DependsOn: []domain.Dependency{{LocalID: "b"}}},
	)

	plan := mustPlan(t, scenario)
	want := []string{"a", "b", "c"}
	if got := planOrder(plan); !reflect.DeepEqual(got, want) {
		t.Errorf("plan order = %v, want %v", got, want)
	}
}

func TestBuildPlan_TieBreakByLocalID(t *testing.T) {
	// Three independent events authored out of lexical order; the
	// plan must order them by local id, not authoring position.
	scenario := testScenario("s1",
		event("zeta", "logon-success", nil),
		event("alpha", "logon-failure", nil),
		event("mike", "service-install", nil),
	)

	plan := mustPlan(t, scenario)
	want := []string{"alpha", "mike", "zeta"}
	if got := planOrder(plan); !reflect.DeepEqual(got, want) {
		t.Errorf("plan order = %v, want %v", got, want)
	}
}

func TestBuildPlan_Deterministic(t *testing.T) {
	scenario := testScenario("s1",
		event("root", "logon-success", nil),
		domain.ScenarioEvent{LocalID: "left", TemplateID: "logon-failure", Delay: 10 * time.Millisecond, DependsOn: []domain.Dependency{{LocalID: "root"}}},
		domain.ScenarioEvent{LocalID: "right", TemplateID: "service-install", Delay: 10 * time.Millisecond, DependsOn: []domain.Dependency{{LocalID: "root"}}},
		domain.ScenarioEvent{LocalID: "join", TemplateID: "logon-success", DependsOn: []domain.Dependency{{LocalID: "left"}, {LocalID: "right"}}},
	)

	first := mustPlan(t, scenario)
	for i := 0; i < 20; i++ {
		next := mustPlan(t, scenario)
		if !reflect.DeepEqual(planOrder(first), planOrder(next)) {
			t.Fatalf("plan order changed between runs: %v vs %v", planOrder(first), planOrder(next))
		}
		for j := range first.Steps {
			if first.Steps[j].ScheduledOffset != next.Steps[j].ScheduledOffset {
				t.Fatalf("offset for %s changed between runs", first.Steps[j].Event.LocalID)
			}
		}
	}
}

func TestBuildPlan_OffsetIsMaxPredecessorPlusDelay(t *testing.T) {
	scenario := testScenario("s1",
		domain.ScenarioEvent{LocalID: "a", TemplateID: "logon-success", Delay: 100 * time.Millisecond},
		domain.ScenarioEvent{LocalID: "b", TemplateID: "logon-failure", Delay: 300 * time.Millisecond},
		domain.ScenarioEvent{
			LocalID:    "c",
			TemplateID: "service-install",
			Delay:      50 * time.Millisecond,
			DependsOn:  []domain.Dependency{{LocalID: "a"}, {LocalID: "b"}},
		},
	)

	plan := mustPlan(t, scenario)

	offsets := make(map[string]time.Duration)
	for _, step := range plan.Steps {
		offsets[step.Event.LocalID] = step.ScheduledOffset
	}

	if offsets["a"] != 100*time.Millisecond {
		t.Errorf("offset(a) = %v, want 100ms", offsets["a"])
	}
	if offsets["b"] != 300*time.Millisecond {
		t.Errorf("offset(b) = %v, want 300ms", offsets["b"])
	}
	// c waits out its longest predecessor, then its own delay.
	if offsets["c"] != 350*time.Millisecond {
		t.Errorf("offset(c) = %v, want 350ms", offsets["c"])
	}
}

func TestBuildPlan_ConditionalFlag(t *testing.T) {
	scenario := testScenario("s1",
		event("a", "logon-failure", nil),
		domain.ScenarioEvent{
			LocalID:    "b",
			TemplateID: "logon-success",
			Condition:  &domain.Condition{LocalID: "a", Outcome: domain.OutcomeFailure},
		},
	)

	plan := mustPlan(t, scenario)
	if plan.Steps[0].Conditional {
		t.Error("step a should not be conditional")
	}
	if !plan.Steps[1].Conditional {
		t.Error("step b should be conditional")
	}
}

func TestBuildPlan_NilGraph(t *testing.T) {
	scenario := testScenario("s1", event("a", "logon-success", nil))
	if _, err := BuildPlan(scenario, nil); err == nil {
		t.Error("expected error for nil graph")
	}
}
