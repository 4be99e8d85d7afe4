package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

const outcomeOK = "ok"

// Metrics holds the contract collectors registered on one registry.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	events   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{}
	factory := promauto.With(reg)
	m.calls = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "pollcontract_calls_total",
		Help: "contract calls by operation and outcome code",
	}, []string{"operation", "outcome"})
	m.duration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pollcontract_call_duration_seconds",
		Help:    "contract call latency",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"operation"})
	m.events = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "pollcontract_events_total",
		Help: "events emitted by committed calls",
	}, []string{"name"})
	return m
}

// Wrap decorates next so every call is counted and timed.
func (m *Metrics) Wrap(next ports.VotingContract) *Contract {
	return &Contract{next: next, metrics: m}
}

// EventSink counts published events by name.
func (m *Metrics) EventSink() ports.EventSink {
	return eventCounter{events: m.events}
}

type Contract struct {
	next    ports.VotingContract
	metrics *Metrics
}

func (c *Contract) observe(operation string, start time.Time, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = domain.CodeOf(err)
	}
	c.metrics.calls.WithLabelValues(operation, outcome).Inc()
	c.metrics.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (c *Contract) CreatePoll(ctx context.Context, inv domain.Invocation, id domain.PollID, description string) (err error) {
	defer func(start time.Time) { c.observe("create_poll", start, err) }(time.Now())
	return c.next.CreatePoll(ctx, inv, id, description)
}

func (c *Contract) AddChoice(ctx context.Context, inv domain.Invocation, pollID domain.PollID, choiceID domain.ChoiceID, description string) (err error) {
	defer func(start time.Time) { c.observe("add_choice", start, err) }(time.Now())
	return c.next.AddChoice(ctx, inv, pollID, choiceID, description)
}

func (c *Contract) StartPoll(ctx context.Context, inv domain.Invocation, id domain.PollID) (err error) {
	defer func(start time.Time) { c.observe("start_poll", start, err) }(time.Now())
	return c.next.StartPoll(ctx, inv, id)
}

func (c *Contract) EndPoll(ctx context.Context, inv domain.Invocation, id domain.PollID) (err error) {
	defer func(start time.Time) { c.observe("end_poll", start, err) }(time.Now())
	return c.next.EndPoll(ctx, inv, id)
}

func (c *Contract) GetChoices(ctx context.Context, pollID domain.PollID) (entries []domain.ChoiceEntry, err error) {
	defer func(start time.Time) { c.observe("get_choices", start, err) }(time.Now())
	return c.next.GetChoices(ctx, pollID)
}

func (c *Contract) Vote(ctx context.Context, inv domain.Invocation, pollID domain.PollID, choiceID domain.ChoiceID) (err error) {
	defer func(start time.Time) { c.observe("vote", start, err) }(time.Now())
	return c.next.Vote(ctx, inv, pollID, choiceID)
}

func (c *Contract) GetReport(ctx context.Context, pollID domain.PollID) (report *domain.PollReport, err error) {
	defer func(start time.Time) { c.observe("get_report", start, err) }(time.Now())
	return c.next.GetReport(ctx, pollID)
}

func (c *Contract) Instantiate(ctx context.Context, inv domain.Invocation) (err error) {
	defer func(start time.Time) { c.observe("instantiate", start, err) }(time.Now())
	return c.next.Instantiate(ctx, inv)
}

func (c *Contract) GetConfig(ctx context.Context) (cfg domain.ContractConfig, err error) {
	defer func(start time.Time) { c.observe("get_config", start, err) }(time.Now())
	return c.next.GetConfig(ctx)
}

func (c *Contract) Pause(ctx context.Context, inv domain.Invocation) (err error) {
	defer func(start time.Time) { c.observe("pause", start, err) }(time.Now())
	return c.next.Pause(ctx, inv)
}

func (c *Contract) Unpause(ctx context.Context, inv domain.Invocation) (err error) {
	defer func(start time.Time) { c.observe("unpause", start, err) }(time.Now())
	return c.next.Unpause(ctx, inv)
}

func (c *Contract) ChangeAdmin(ctx context.Context, inv domain.Invocation, newAdmin domain.AccountID) (err error) {
	defer func(start time.Time) { c.observe("change_admin", start, err) }(time.Now())
	return c.next.ChangeAdmin(ctx, inv, newAdmin)
}

func (c *Contract) SetCode(ctx context.Context, inv domain.Invocation, hash domain.CodeHash) (err error) {
	defer func(start time.Time) { c.observe("set_code", start, err) }(time.Now())
	return c.next.SetCode(ctx, inv, hash)
}

func (c *Contract) UploadCode(ctx context.Context, inv domain.Invocation, hash domain.CodeHash) (err error) {
	defer func(start time.Time) { c.observe("upload_code", start, err) }(time.Now())
	return c.next.UploadCode(ctx, inv, hash)
}

type eventCounter struct {
	events *prometheus.CounterVec
}

func (e eventCounter) Publish(_ context.Context, event domain.EventEnvelope) {
	e.events.WithLabelValues(event.Name).Inc()
}
