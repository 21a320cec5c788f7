package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

// ScenarioStore implements the scenario store with in-memory maps.
// Versions are copy-on-write: Save deep-copies the definition and
// appends it under the next version, never mutating a stored one.
type ScenarioStore struct {
	mu        sync.RWMutex
	scenarios map[string][]*domain.ScenarioDefinition // id -> versions, ascending
}

// NewScenarioStore creates a new in-memory scenario store
func NewScenarioStore() *ScenarioStore {
	return &ScenarioStore{
		scenarios: make(map[string][]*domain.ScenarioDefinition),
	}
}

// Save persists the definition under the next version for its ID.
// Empty IDs get a generated one.
func (s *ScenarioStore) Save(ctx context.Context, scenario *domain.ScenarioDefinition) (string, int, error) {
	if scenario == nil {
		return "", 0, fmt.Errorf("save scenario: nil definition")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := scenario.Clone()
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}

	versions := s.scenarios[stored.ID]
	stored.Version = len(versions) + 1
	now := time.Now()
	if len(versions) == 0 {
		stored.CreatedAt = now
	} else {
		stored.CreatedAt = versions[0].CreatedAt
	}
	stored.UpdatedAt = now

	s.scenarios[stored.ID] = append(versions, stored)
	return stored.ID, stored.Version, nil
}

// Load returns the given version, or the latest when version is 0
func (s *ScenarioStore) Load(ctx context.Context, scenarioID string, version int) (*domain.ScenarioDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, ok := s.scenarios[scenarioID]
	if !ok || len(versions) == 0 {
		return nil, fmt.Errorf("scenario %q: %w", scenarioID, domain.ErrScenarioNotFound)
	}

	if version == 0 {
		return versions[len(versions)-1].Clone(), nil
	}
	if version < 1 || version > len(versions) {
		return nil, fmt.Errorf("scenario %q version %d: %w", scenarioID, version, domain.ErrScenarioNotFound)
	}
	return versions[version-1].Clone(), nil
}

// Delete removes all versions of a scenario
func (s *ScenarioStore) Delete(ctx context.Context, scenarioID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.scenarios[scenarioID]
	delete(s.scenarios, scenarioID)
	return ok, nil
}

// List returns the latest version of every stored scenario, ordered
// by ID for stable listings
func (s *ScenarioStore) List(ctx context.Context) ([]*domain.ScenarioDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ScenarioDefinition, 0, len(s.scenarios))
	for _, versions := range s.scenarios {
		if len(versions) > 0 {
			out = append(out, versions[len(versions)-1].Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
