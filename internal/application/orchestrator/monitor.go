package orchestrator

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Monitor periodically samples the coordinator's in-flight executions
// and logs a health snapshot. It exists for operators: a scenario that
// has been Running far beyond its planned span shows up here long
// before its timeout fires.
type Monitor struct {
	coordinator *Coordinator
	interval    time.Duration
	logger      *zap.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// MonitorSnapshot is one health sample
type MonitorSnapshot struct {
	ActiveExecutions int
	Scenarios        []string
	Timestamp        time.Time
}

// NewMonitor creates a new execution monitor
func NewMonitor(coordinator *Coordinator, interval time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		coordinator: coordinator,
		interval:    interval,
		logger:      logger,
		stopCh:      make(chan struct{}),
	}
}

// Start begins periodic sampling
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	go m.run()
}

// Stop halts sampling
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	close(m.stopCh)
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			snap := m.Snapshot()
			if snap.ActiveExecutions == 0 {
				continue
			}
			m.logger.Info("execution health check",
				zap.Int("active_executions", snap.ActiveExecutions),
				zap.Strings("scenarios", snap.Scenarios))
		}
	}
}

// Snapshot returns the current health sample
func (m *Monitor) Snapshot() MonitorSnapshot {
	scenarios := m.coordinator.ActiveScenarios()
	return MonitorSnapshot{
		ActiveExecutions: len(scenarios),
		Scenarios:        scenarios,
		Timestamp:        time.Now(),
	}
}
