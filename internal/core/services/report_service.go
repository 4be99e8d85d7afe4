package services

import (
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

type reportBuilder struct {
	choices choiceRegistry
	ballots ballotBox
}

func (r reportBuilder) build(tx ports.StateTx, pollID domain.PollID) (*domain.PollReport, error) {
	poll, ok, err := tx.GetPoll(pollID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPollWithIDDoesNotExist
	}

	entries, err := r.choices.list(tx, pollID)
	if err != nil {
		return nil, err
	}

	report := &domain.PollReport{
		ID:          pollID,
		Description: poll.Description,
		Status:      poll.Status,
		Owner:       poll.Owner,
		Choices:     make([]domain.ChoiceReport, 0, len(entries)),
		Winner:      poll.Winner,
	}
	for _, entry := range entries {
		count, err := r.ballots.tally(tx, pollID, entry.ID)
		if err != nil {
			return nil, err
		}
		report.Choices = append(report.Choices, domain.ChoiceReport{
			ID:          entry.ID,
			Description: entry.Description,
			VoteCount:   count,
		})
	}
	return report, nil
}
