package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/eventbus"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/upgrade"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/services"
)

func TestContractMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	ctx := context.Background()

	rec := &eventbus.Recorder{}
	contract := m.Wrap(services.NewVotingContract(
		memory.NewStore(),
		eventbus.Fanout{rec, m.EventSink()},
		upgrade.NewRegistry(),
	))

	admin := domain.Invocation{Caller: uuid.New()}
	require.NoError(t, contract.Instantiate(ctx, admin))
	require.NoError(t, contract.CreatePoll(ctx, admin, 1, "first"))
	err := contract.CreatePoll(ctx, admin, 1, "again")
	require.ErrorIs(t, err, domain.ErrPollWithIDAlreadyExists)

	_, err = contract.GetReport(ctx, 99)
	require.ErrorIs(t, err, domain.ErrPollWithIDDoesNotExist)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.calls.WithLabelValues("instantiate", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.calls.WithLabelValues("create_poll", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.calls.WithLabelValues("create_poll", "PollWithIdAlreadyExists")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.calls.WithLabelValues("get_report", "PollWithIdDoesNotExist")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.events.WithLabelValues("PollCreated")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.duration))
	assert.Len(t, rec.Events(), 1)
}

func TestEventSinkCounts(t *testing.T) {
	m := New(prometheus.NewRegistry())
	sink := m.EventSink()
	sink.Publish(context.Background(), domain.NewEventEnvelope(domain.PollStarted{PollID: 1}, "", time.Now()))
	sink.Publish(context.Background(), domain.NewEventEnvelope(domain.PollStarted{PollID: 2}, "", time.Now()))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.events.WithLabelValues("PollStarted")))
}
