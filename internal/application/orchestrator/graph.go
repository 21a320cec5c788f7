package orchestrator

import (
	"sort"
	"strings"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

// DependencyGraph is the acyclic ordering graph derived from one
// scenario's event list. An edge a -> b exists when b depends on a or
// b's condition references a's outcome.
type DependencyGraph struct {
	order  []string                         // localIDs in authoring order
	events map[string]*domain.ScenarioEvent // localID -> event
	succs  map[string][]string              // localID -> dependents
	preds  map[string][]string              // localID -> predecessors
}

// Event returns the event for a localID
func (g *DependencyGraph) Event(localID string) *domain.ScenarioEvent {
	return g.events[localID]
}

// Predecessors returns the localIDs the given event is gated on
func (g *DependencyGraph) Predecessors(localID string) []string {
	return g.preds[localID]
}

// Size returns the number of events in the graph
func (g *DependencyGraph) Size() int {
	return len(g.order)
}

// BuildGraph builds and checks the dependency graph for an ordered
// event list. It is a pure function: no side effects, and it never
// partially succeeds. Either the returned graph is acyclic and fully
// resolved, or the result carries a non-empty violation list and the
// graph is nil.
func BuildGraph(events []domain.ScenarioEvent) (*DependencyGraph, *domain.ValidationResult) {
	result := &domain.ValidationResult{}

	g := &DependencyGraph{
		events: make(map[string]*domain.ScenarioEvent, len(events)),
		succs:  make(map[string][]string, len(events)),
		preds:  make(map[string][]string, len(events)),
	}

	// Index events; duplicate localIDs break the scenario invariant.
	for i := range events {
		ev := &events[i]
		if _, dup := g.events[ev.LocalID]; dup {
			result.AddViolation(domain.ViolationDuplicateLocalID, ev.LocalID, "",
				"local id %q is defined more than once", ev.LocalID)
			continue
		}
		g.events[ev.LocalID] = ev
		g.order = append(g.order, ev.LocalID)
	}

	// Resolve references. DependsOn and Condition may only name
	// localIDs defined earlier in authoring order, which rules out
	// self references and forward references at definition time.
	defined := make(map[string]bool, len(events))
	for _, localID := range g.order {
		ev := g.events[localID]

		for _, dep := range ev.DependsOn {
			if !defined[dep.LocalID] {
				result.AddViolation(domain.ViolationUnresolvedDependency, localID, "",
					"depends_on references %q, which is not defined earlier in the scenario", dep.LocalID)
				continue
			}
			g.addEdge(dep.LocalID, localID)
		}

		if ev.Condition != nil {
			if !defined[ev.Condition.LocalID] {
				result.AddViolation(domain.ViolationUnresolvedDependency, localID, "",
					"condition references %q, which is not defined earlier in the scenario", ev.Condition.LocalID)
			} else {
				g.addEdge(ev.Condition.LocalID, localID)
			}
		}

		defined[localID] = true
	}

	// Cycle check by depth-first traversal; a back edge names a cycle.
	if cycle := g.findCycle(); len(cycle) > 0 {
		result.AddViolation(domain.ViolationCyclicDependency, cycle[0], "",
			"dependency cycle: %s", strings.Join(cycle, " -> "))
	}

	if !result.Valid() {
		return nil, result
	}
	return g, result
}

func (g *DependencyGraph) addEdge(from, to string) {
	for _, existing := range g.succs[from] {
		if existing == to {
			return
		}
	}
	g.succs[from] = append(g.succs[from], to)
	g.preds[to] = append(g.preds[to], from)
}

const (
	colorWhite = 0 // unvisited
	colorGray  = 1 // on the current DFS stack
	colorBlack = 2 // done
)

// findCycle returns the nodes of one cycle (closed: first == last),
// or nil when the graph is acyclic. Roots are visited in sorted order
// so the same input always reports the same cycle.
func (g *DependencyGraph) findCycle() []string {
	color := make(map[string]int, len(g.order))
	parent := make(map[string]string, len(g.order))

	roots := append([]string(nil), g.order...)
	sort.Strings(roots)

	var cycle []string
	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = colorGray
		succs := append([]string(nil), g.succs[node]...)
		sort.Strings(succs)
		for _, next := range succs {
			switch color[next] {
			case colorWhite:
				parent[next] = node
				if visit(next) {
					return true
				}
			case colorGray:
				// Back edge: walk parents from node back to next.
				cycle = nil
				for at := node; ; at = parent[at] {
					cycle = append(cycle, at)
					if at == next {
						break
					}
				}
				// Reverse into forward edge order and close the loop.
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				cycle = append(cycle, next)
				return true
			}
		}
		color[node] = colorBlack
		return false
	}

	for _, root := range roots {
		if color[root] == colorWhite && visit(root) {
			return cycle
		}
	}
	return nil
}
