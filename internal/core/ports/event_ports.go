package ports

import (
	"context"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

// EventSink receives events of committed calls. Delivery is fire-and-forget:
// sinks report their own failures.
type EventSink interface {
	Publish(ctx context.Context, event domain.EventEnvelope)
}
