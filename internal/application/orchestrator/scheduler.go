package orchestrator

import (
	"fmt"
	"sort"
	"time"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

// BuildPlan converts a validated scenario into an ordered execution
// plan. The topological sort breaks ties by ascending localID, so
// identical scenario versions always produce identical plans; this is
// what makes test runs and SIEM replays reproducible.
//
// Each step's offset is max(predecessor offsets) + the event's own
// delay; an event with no dependencies schedules at its own delay
// from execution start. Conditional events are planned like any
// other and flagged; their predicate is evaluated at dispatch time.
func BuildPlan(scenario *domain.ScenarioDefinition, graph *DependencyGraph) (*domain.ExecutionPlan, error) {
	if graph == nil {
		return nil, fmt.Errorf("build plan: scenario %s has no dependency graph", scenario.ID)
	}
	if graph.Size() != len(scenario.Events) {
		return nil, fmt.Errorf("build plan: graph covers %d of %d events", graph.Size(), len(scenario.Events))
	}

	indegree := make(map[string]int, graph.Size())
	for _, localID := range graph.order {
		indegree[localID] = len(graph.preds[localID])
	}

	var ready []string
	for _, localID := range graph.order {
		if indegree[localID] == 0 {
			ready = append(ready, localID)
		}
	}

	offsets := make(map[string]time.Duration, graph.Size())
	plan := &domain.ExecutionPlan{
		ScenarioID: scenario.ID,
		Version:    scenario.Version,
		Steps:      make([]domain.PlanStep, 0, graph.Size()),
	}

	for len(ready) > 0 {
		// Deterministic tie-break: smallest localID among eligible.
		sort.Strings(ready)
		localID := ready[0]
		ready = ready[1:]

		ev := graph.Event(localID)

		var base time.Duration
		for _, pred := range graph.preds[localID] {
			if off := offsets[pred]; off > base {
				base = off
			}
		}
		offsets[localID] = base + ev.Delay

		plan.Steps = append(plan.Steps, domain.PlanStep{
			Event:           *ev,
			ScheduledOffset: offsets[localID],
			Conditional:     ev.Condition != nil,
		})

		for _, succ := range graph.succs[localID] {
			indegree[succ]--
			if indegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}

	// The graph is already cycle-checked; an incomplete sort here
	// would mean the graph and event list diverged.
	if len(plan.Steps) != graph.Size() {
		return nil, fmt.Errorf("build plan: sorted %d of %d events", len(plan.Steps), graph.Size())
	}

	// Dispatch strictly in increasing offset; the sort above fixes
	// relative order of equal offsets deterministically already, so a
	// stable sort keeps plans byte-identical across calls.
	sort.SliceStable(plan.Steps, func(i, j int) bool {
		return plan.Steps[i].ScheduledOffset < plan.Steps[j].ScheduledOffset
	})

	return plan, nil
}
