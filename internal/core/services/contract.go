package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

const module = "core/contract"

type contract struct {
	store     ports.StateStore
	events    ports.EventSink
	installer ports.CodeInstaller
	logger    *slog.Logger
	now       func() time.Time

	access  accessControl
	polls   pollLifecycle
	reports reportBuilder
}

type Option func(*contract)

func WithLogger(logger *slog.Logger) Option {
	return func(c *contract) { c.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(c *contract) { c.now = now }
}

func NewVotingContract(store ports.StateStore, events ports.EventSink, installer ports.CodeInstaller, opts ...Option) ports.VotingContract {
	polls := newPollLifecycle()
	c := &contract{
		store:     store,
		events:    events,
		installer: installer,
		now:       time.Now,
		polls:     polls,
		reports:   reportBuilder{choices: polls.choices, ballots: polls.ballots},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = resolveLogger(c.logger)
	return c
}

// execute runs fn as one all-or-nothing call. Events are published only
// after the store has committed.
func (c *contract) execute(ctx context.Context, inv domain.Invocation, operation string, fn func(*call) error, attrs ...any) error {
	var emitted []domain.Event
	err := c.store.Update(ctx, func(tx ports.StateTx) error {
		cfg, ok, err := tx.LoadConfig()
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrContractNotInstantiated
		}

		cl := &call{tx: tx, inv: inv, cfg: cfg}
		if err := fn(cl); err != nil {
			return err
		}
		emitted = cl.events
		return nil
	})
	if err != nil {
		c.logRejected(inv, operation, err, attrs...)
		return err
	}

	c.logger.Info("contract call committed", c.logAttrs(inv, operation, "contract_call_committed", attrs...)...)
	for _, event := range emitted {
		c.events.Publish(ctx, domain.NewEventEnvelope(event, inv.RequestID, c.now()))
	}
	return nil
}

func (c *contract) logRejected(inv domain.Invocation, operation string, err error, attrs ...any) {
	if domain.KindOf(err) == domain.KindInternal {
		c.logger.Error("contract call failed",
			append(c.logAttrs(inv, operation, "contract_call_failed", attrs...), "error", err.Error())...)
		return
	}
	c.logger.Warn("contract call rejected",
		append(c.logAttrs(inv, operation, "contract_call_rejected", attrs...), "code", domain.CodeOf(err))...)
}

func (c *contract) logAttrs(inv domain.Invocation, operation, event string, attrs ...any) []any {
	base := []any{
		"event", event,
		"module", module,
		"operation", operation,
		"caller", inv.Caller.String(),
	}
	if inv.RequestID != "" {
		base = append(base, "request_id", inv.RequestID)
	}
	return append(base, attrs...)
}

func (c *contract) CreatePoll(ctx context.Context, inv domain.Invocation, id domain.PollID, description string) error {
	return c.execute(ctx, inv, "create_poll", func(cl *call) error {
		return c.polls.create(cl, id, description)
	}, "poll_id", uint64(id))
}

func (c *contract) AddChoice(ctx context.Context, inv domain.Invocation, pollID domain.PollID, choiceID domain.ChoiceID, description string) error {
	return c.execute(ctx, inv, "add_choice", func(cl *call) error {
		return c.polls.addChoice(cl, pollID, choiceID, description)
	}, "poll_id", uint64(pollID), "choice_id", uint8(choiceID))
}

func (c *contract) StartPoll(ctx context.Context, inv domain.Invocation, id domain.PollID) error {
	return c.execute(ctx, inv, "start_poll", func(cl *call) error {
		return c.polls.start(cl, id)
	}, "poll_id", uint64(id))
}

func (c *contract) EndPoll(ctx context.Context, inv domain.Invocation, id domain.PollID) error {
	return c.execute(ctx, inv, "end_poll", func(cl *call) error {
		return c.polls.end(cl, id)
	}, "poll_id", uint64(id))
}

func (c *contract) Vote(ctx context.Context, inv domain.Invocation, pollID domain.PollID, choiceID domain.ChoiceID) error {
	return c.execute(ctx, inv, "vote", func(cl *call) error {
		return c.polls.vote(cl, pollID, choiceID)
	}, "poll_id", uint64(pollID))
}

func (c *contract) GetChoices(ctx context.Context, pollID domain.PollID) ([]domain.ChoiceEntry, error) {
	var entries []domain.ChoiceEntry
	err := c.store.View(ctx, func(tx ports.StateTx) error {
		var err error
		entries, err = c.polls.choices.list(tx, pollID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *contract) GetReport(ctx context.Context, pollID domain.PollID) (*domain.PollReport, error) {
	var report *domain.PollReport
	err := c.store.View(ctx, func(tx ports.StateTx) error {
		var err error
		report, err = c.reports.build(tx, pollID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
