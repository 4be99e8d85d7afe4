package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

// Fanout hands every event to each sink in order.
type Fanout []ports.EventSink

func (f Fanout) Publish(ctx context.Context, event domain.EventEnvelope) {
	for _, sink := range f {
		sink.Publish(ctx, event)
	}
}

// LogSink writes each event as a structured log line.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, event domain.EventEnvelope) {
	s.logger.InfoContext(ctx, "contract event",
		"event", "contract_event",
		"module", "eventbus",
		"name", event.Name,
		"event_id", event.ID.String(),
		"poll_id", uint64(event.PollID()),
		"topics", event.Topics,
	)
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []domain.EventEnvelope
}

func (r *Recorder) Publish(_ context.Context, event domain.EventEnvelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Events() []domain.EventEnvelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventEnvelope, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns the names of recorded events in publish order.
func (r *Recorder) Names() []string {
	events := r.Events()
	names := make([]string, len(events))
	for i, event := range events {
		names[i] = event.Name
	}
	return names
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
