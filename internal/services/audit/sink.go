package audit

import (
	"context"
	"log/slog"

	"github.com/rpsduel/rpsduel-go/internal/model"
)

// Sink receives discrete game event notifications. Delivery is best-effort:
// implementations must not block the caller or return errors.
type Sink interface {
	Emit(ctx context.Context, event model.Event)
}

// LogSink writes events to a structured logger
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink backed by the given logger
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

var _ Sink = (*LogSink)(nil)

// Emit logs the event
func (s *LogSink) Emit(ctx context.Context, event model.Event) {
	s.logger.InfoContext(ctx, "game event",
		slog.String("event", string(event.Type)),
		slog.String("match_id", string(event.MatchID)),
		slog.String("player_id", string(event.PlayerID)),
		slog.Time("at", event.Timestamp),
		slog.Any("payload", event.Payload),
	)
}

// NopSink discards all events
type NopSink struct{}

var _ Sink = (*NopSink)(nil)

// Emit does nothing
func (NopSink) Emit(context.Context, model.Event) {}
