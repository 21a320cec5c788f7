package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/domain"
)

// StreamSink writes rendered events to a Redis Stream, one XADD per
// event. Downstream SIEM forwarders consume the stream with consumer
// groups. The sink does not retry; retry policy, if any, belongs to
// the consumer side.
type StreamSink struct {
	client *redis.Client
	logger *zap.Logger
	stream string
	maxLen int64
}

// NewStreamSink creates a new stream sink. maxLen caps the stream
// with approximate trimming; 0 disables trimming.
func NewStreamSink(client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *StreamSink {
	return &StreamSink{
		client: client,
		logger: logger,
		stream: stream,
		maxLen: maxLen,
	}
}

// Write appends one rendered event to the stream
func (s *StreamSink) Write(ctx context.Context, event *domain.RenderedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if _, err := s.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	s.logger.Debug("event written",
		zap.String("scenario_id", event.ScenarioID),
		zap.String("local_id", event.LocalID),
		zap.Int("event_id", event.EventID),
		zap.String("stream", s.stream))
	return nil
}
