package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

// Sink is an in-memory log sink that records every written event.
// It is used in tests and local development; failure injection and an
// artificial write delay model slow or failing real sinks.
type Sink struct {
	mu       sync.Mutex
	events   []*domain.RenderedEvent
	failures map[string]string // localID -> failure reason
	delay    time.Duration
}

// NewSink creates a new recording sink
func NewSink() *Sink {
	return &Sink{failures: make(map[string]string)}
}

// FailEvent makes the sink reject writes for a localID
func (s *Sink) FailEvent(localID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[localID] = reason
}

// SetWriteDelay makes every write take at least d
func (s *Sink) SetWriteDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Write records the event, honoring ctx during the artificial delay
func (s *Sink) Write(ctx context.Context, event *domain.RenderedEvent) error {
	s.mu.Lock()
	delay := s.delay
	reason, failing := s.failures[event.LocalID]
	s.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return fmt.Errorf("sink write: %w", ctx.Err())
		}
	}

	if failing {
		return fmt.Errorf("sink write rejected: %s", reason)
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	return nil
}

// Events returns a copy of everything written so far
func (s *Sink) Events() []*domain.RenderedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.RenderedEvent(nil), s.events...)
}

// Count returns the number of written events
func (s *Sink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
