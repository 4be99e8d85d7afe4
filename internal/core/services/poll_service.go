package services

import (
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

// pollLifecycle owns poll identity and status transitions. Every mutator
// checks, in order: pause flag, poll existence, ownership, status.
type pollLifecycle struct {
	access  accessControl
	choices choiceRegistry
	ballots ballotBox
}

func newPollLifecycle() pollLifecycle {
	choices := choiceRegistry{}
	return pollLifecycle{
		choices: choices,
		ballots: ballotBox{choices: choices},
	}
}

func (p pollLifecycle) load(c *call, id domain.PollID) (domain.Poll, error) {
	poll, ok, err := c.tx.GetPoll(id)
	if err != nil {
		return domain.Poll{}, err
	}
	if !ok {
		return domain.Poll{}, domain.ErrPollWithIDDoesNotExist
	}
	return poll, nil
}

func (p pollLifecycle) create(c *call, id domain.PollID, description string) error {
	if err := p.access.ensureNotPaused(c); err != nil {
		return err
	}

	_, exists, err := c.tx.GetPoll(id)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrPollWithIDAlreadyExists
	}

	poll := domain.Poll{
		Description: description,
		Status:      domain.PollStatusNotStarted,
		Owner:       c.inv.Caller,
	}
	if err := c.tx.PutPoll(id, poll); err != nil {
		return err
	}

	c.emit(domain.PollCreated{PollID: id, Description: description, Owner: c.inv.Caller})
	return nil
}

func (p pollLifecycle) addChoice(c *call, pollID domain.PollID, choiceID domain.ChoiceID, description string) error {
	if err := p.access.ensureNotPaused(c); err != nil {
		return err
	}

	poll, err := p.load(c, pollID)
	if err != nil {
		return err
	}
	if err := p.access.authorize(c, ownerOf(poll, domain.ErrOnlyOwnerCanAddChoice)); err != nil {
		return err
	}
	if err := requireNotStarted(poll); err != nil {
		return err
	}

	if err := p.choices.add(c.tx, pollID, choiceID, description); err != nil {
		return err
	}

	c.emit(domain.ChoiceAdded{PollID: pollID, ChoiceID: choiceID, Description: description})
	return nil
}

func (p pollLifecycle) start(c *call, id domain.PollID) error {
	if err := p.access.ensureNotPaused(c); err != nil {
		return err
	}

	poll, err := p.load(c, id)
	if err != nil {
		return err
	}
	if err := p.access.authorize(c, ownerOf(poll, domain.ErrOnlyOwnerCanStartPoll)); err != nil {
		return err
	}
	if err := requireNotStarted(poll); err != nil {
		return err
	}

	ids, err := p.choices.ids(c.tx, id)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return domain.ErrCannotStartPollWithNoChoices
	}

	poll.Status = domain.PollStatusStarted
	if err := c.tx.PutPoll(id, poll); err != nil {
		return err
	}

	c.emit(domain.PollStarted{PollID: id})
	return nil
}

func (p pollLifecycle) end(c *call, id domain.PollID) error {
	if err := p.access.ensureNotPaused(c); err != nil {
		return err
	}

	poll, err := p.load(c, id)
	if err != nil {
		return err
	}
	if err := p.access.authorize(c, ownerOf(poll, domain.ErrOnlyOwnerCanEndPoll)); err != nil {
		return err
	}
	if err := requireStarted(poll); err != nil {
		return err
	}

	winner, err := p.ballots.winner(c.tx, id)
	if err != nil {
		return err
	}

	poll.Status = domain.PollStatusEnded
	poll.Winner = winner
	if err := c.tx.PutPoll(id, poll); err != nil {
		return err
	}

	c.emit(domain.PollEnded{PollID: id, Winner: winner})
	return nil
}

func (p pollLifecycle) vote(c *call, pollID domain.PollID, choiceID domain.ChoiceID) error {
	if err := p.access.ensureNotPaused(c); err != nil {
		return err
	}

	poll, err := p.load(c, pollID)
	if err != nil {
		return err
	}
	if err := requireStarted(poll); err != nil {
		return err
	}

	return p.ballots.cast(c.tx, pollID, choiceID, c.inv.Caller)
}

func requireNotStarted(poll domain.Poll) error {
	switch poll.Status {
	case domain.PollStatusStarted:
		return domain.ErrPollHasStarted
	case domain.PollStatusEnded:
		return domain.ErrPollHasEnded
	}
	return nil
}

func requireStarted(poll domain.Poll) error {
	switch poll.Status {
	case domain.PollStatusNotStarted:
		return domain.ErrPollHasNotStarted
	case domain.PollStatusEnded:
		return domain.ErrPollHasEnded
	}
	return nil
}
