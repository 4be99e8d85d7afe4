package redisstream

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

const DefaultStream = "pollcontract:events"

// Publisher appends contract events to a redis stream. Failures are logged
// and never reach the contract call that produced the event.
type Publisher struct {
	client redis.Cmdable
	stream string
	maxLen int64
	logger *slog.Logger
}

type Option func(*Publisher)

func WithStream(stream string) Option {
	return func(p *Publisher) { p.stream = stream }
}

// WithMaxLen caps the stream at roughly n entries.
func WithMaxLen(n int64) Option {
	return func(p *Publisher) { p.maxLen = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func NewPublisher(client redis.Cmdable, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		stream: DefaultStream,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Publish(ctx context.Context, event domain.EventEnvelope) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to encode event", "event", "redis_publish_failed", "module", "eventbus/redisstream", "name", event.Name, "error", err.Error())
		return
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"id":      event.ID.String(),
			"name":    event.Name,
			"poll_id": strconv.FormatUint(uint64(event.PollID()), 10),
			"payload": string(payload),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		p.logger.Error("failed to publish event", "event", "redis_publish_failed", "module", "eventbus/redisstream", "name", event.Name, "stream", p.stream, "error", err.Error())
	}
}
