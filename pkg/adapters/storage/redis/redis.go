package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

// ScenarioStore implements the scenario store on Redis. Every
// (id, version) pair is one immutable JSON value; a per-ID counter
// assigns versions, so Save never overwrites.
type ScenarioStore struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewScenarioStore creates a new Redis scenario store. A zero ttl
// keeps scenarios forever.
func NewScenarioStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ScenarioStore {
	return &ScenarioStore{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Save persists the definition under the next version for its ID
func (s *ScenarioStore) Save(ctx context.Context, scenario *domain.ScenarioDefinition) (string, int, error) {
	if scenario == nil {
		return "", 0, fmt.Errorf("save scenario: nil definition")
	}

	stored := scenario.Clone()
	if stored.ID == "" {
		return "", 0, fmt.Errorf("save scenario: id is required for the redis store")
	}

	version, err := s.client.Incr(ctx, versionKey(stored.ID)).Result()
	if err != nil {
		return "", 0, fmt.Errorf("failed to allocate version: %w", err)
	}
	stored.Version = int(version)
	now := time.Now()
	stored.UpdatedAt = now
	if stored.Version == 1 {
		stored.CreatedAt = now
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal scenario: %w", err)
	}

	key := scenarioKey(stored.ID, stored.Version)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return "", 0, fmt.Errorf("failed to save scenario: %w", err)
	}

	s.logger.Debug("scenario saved",
		zap.String("scenario_id", stored.ID),
		zap.Int("version", stored.Version))
	return stored.ID, stored.Version, nil
}

// Load returns the given version, or the latest when version is 0
func (s *ScenarioStore) Load(ctx context.Context, scenarioID string, version int) (*domain.ScenarioDefinition, error) {
	if version == 0 {
		latest, err := s.client.Get(ctx, versionKey(scenarioID)).Int()
		if err != nil {
			if err == redis.Nil {
				return nil, fmt.Errorf("scenario %q: %w", scenarioID, domain.ErrScenarioNotFound)
			}
			return nil, fmt.Errorf("failed to resolve latest version: %w", err)
		}
		version = latest
	}

	data, err := s.client.Get(ctx, scenarioKey(scenarioID, version)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("scenario %q version %d: %w", scenarioID, version, domain.ErrScenarioNotFound)
		}
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	var scenario domain.ScenarioDefinition
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}
	return &scenario, nil
}

// Delete removes all versions of a scenario
func (s *ScenarioStore) Delete(ctx context.Context, scenarioID string) (bool, error) {
	latest, err := s.client.Get(ctx, versionKey(scenarioID)).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve latest version: %w", err)
	}

	keys := make([]string, 0, latest+1)
	for v := 1; v <= latest; v++ {
		keys = append(keys, scenarioKey(scenarioID, v))
	}
	keys = append(keys, versionKey(scenarioID))

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return false, fmt.Errorf("failed to delete scenario: %w", err)
	}

	s.logger.Debug("scenario deleted", zap.String("scenario_id", scenarioID))
	return true, nil
}

// List returns the latest version of every stored scenario
func (s *ScenarioStore) List(ctx context.Context) ([]*domain.ScenarioDefinition, error) {
	pattern := "evtgen:scenario:*:latest"

	var cursor uint64
	var keys []string
	for {
		var batch []string
		var err error

		batch, cursor, err = s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		keys = append(keys, batch...)
		if cursor == 0 {
			break
		}
	}

	scenarios := make([]*domain.ScenarioDefinition, 0, len(keys))
	prefix := "evtgen:scenario:"
	suffix := ":latest"
	for _, key := range keys {
		id := key[len(prefix) : len(key)-len(suffix)]
		scenario, err := s.Load(ctx, id, 0)
		if err != nil {
			continue
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

func scenarioKey(scenarioID string, version int) string {
	return fmt.Sprintf("evtgen:scenario:%s:v%d", scenarioID, version)
}

func versionKey(scenarioID string) string {
	return fmt.Sprintf("evtgen:scenario:%s:latest", scenarioID)
}
