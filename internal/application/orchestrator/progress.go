package orchestrator

import (
	"sync"

	"go.uber.org/zap"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

// progressBufferSize bounds each subscriber channel. When a consumer
// falls behind, the oldest buffered notification is dropped so the
// dispatch loop is never back-pressured.
const progressBufferSize = 64

// ProgressBroker fans execution progress out to subscribers, keyed by
// scenario ID. It implements ports.ProgressSink. Notify never blocks.
type ProgressBroker struct {
	logger *zap.Logger

	mu   sync.RWMutex
	subs map[string]map[chan domain.Progress]struct{}
}

// NewProgressBroker creates a new progress broker
func NewProgressBroker(logger *zap.Logger) *ProgressBroker {
	return &ProgressBroker{
		logger: logger,
		subs:   make(map[string]map[chan domain.Progress]struct{}),
	}
}

// Subscribe registers a consumer for a scenario's progress stream.
// The returned cancel function must be called to release the channel.
func (b *ProgressBroker) Subscribe(scenarioID string) (<-chan domain.Progress, func()) {
	ch := make(chan domain.Progress, progressBufferSize)

	b.mu.Lock()
	if b.subs[scenarioID] == nil {
		b.subs[scenarioID] = make(map[chan domain.Progress]struct{})
	}
	b.subs[scenarioID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[scenarioID]; ok {
			if _, subscribed := set[ch]; subscribed {
				delete(set, ch)
				close(ch)
				if len(set) == 0 {
					delete(b.subs, scenarioID)
				}
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Notify delivers a progress notification to every subscriber of the
// scenario. Full buffers drop their oldest entry; delivery is
// fire-and-forget.
func (b *ProgressBroker) Notify(p domain.Progress) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[p.ScenarioID] {
		select {
		case ch <- p:
		default:
			// Drop the oldest buffered notification, then retry once.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- p:
			default:
				b.logger.Warn("progress subscriber stalled, dropping notification",
					zap.String("scenario_id", p.ScenarioID),
					zap.String("execution_id", p.ExecutionID))
			}
		}
	}
}
