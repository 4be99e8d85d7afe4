package services

import (
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

type ballotBox struct {
	choices choiceRegistry
}

// cast records one vote of voter for choiceID. The poll must already be
// known to accept votes.
func (b ballotBox) cast(tx ports.StateTx, pollID domain.PollID, choiceID domain.ChoiceID, voter domain.AccountID) error {
	exists, err := b.choices.exists(tx, pollID, choiceID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrChoiceWithIDDoesNotExist
	}

	voted, err := tx.HasVoted(pollID, voter)
	if err != nil {
		return err
	}
	if voted {
		return domain.ErrCallerAlreadyVotedOnPoll
	}

	count, err := tx.VoteCount(pollID, choiceID)
	if err != nil {
		return err
	}
	if err := tx.PutVoteCount(pollID, choiceID, count+1); err != nil {
		return err
	}
	return tx.MarkVoted(pollID, voter)
}

func (b ballotBox) tally(tx ports.StateTx, pollID domain.PollID, choiceID domain.ChoiceID) (uint64, error) {
	return tx.VoteCount(pollID, choiceID)
}

// winner returns the choice with the strictly highest tally. A tie for the
// highest tally, or a poll without choices, has no winner.
func (b ballotBox) winner(tx ports.StateTx, pollID domain.PollID) (*domain.ChoiceID, error) {
	ids, err := b.choices.ids(tx, pollID)
	if err != nil {
		return nil, err
	}

	var (
		best    domain.ChoiceID
		highest uint64
		found   bool
		tied    bool
	)
	for _, id := range ids {
		count, err := b.tally(tx, pollID, id)
		if err != nil {
			return nil, err
		}
		switch {
		case !found || count > highest:
			best, highest, found, tied = id, count, true, false
		case count == highest:
			tied = true
		}
	}

	if !found || tied {
		return nil, nil
	}
	return &best, nil
}
