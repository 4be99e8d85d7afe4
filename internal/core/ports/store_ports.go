package ports

import (
	"context"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

// StateTx exposes the contract's keyed stores inside one host transaction.
// Lookups report absence with a false flag rather than an error.
type StateTx interface {
	LoadConfig() (domain.ContractConfig, bool, error)
	SaveConfig(cfg domain.ContractConfig) error

	GetPoll(id domain.PollID) (domain.Poll, bool, error)
	PutPoll(id domain.PollID, poll domain.Poll) error

	GetChoice(pollID domain.PollID, choiceID domain.ChoiceID) (domain.Choice, bool, error)
	HasChoice(pollID domain.PollID, choiceID domain.ChoiceID) (bool, error)
	PutChoice(pollID domain.PollID, choiceID domain.ChoiceID, choice domain.Choice) error

	ChoiceIDs(pollID domain.PollID) ([]domain.ChoiceID, error)
	PutChoiceIDs(pollID domain.PollID, ids []domain.ChoiceID) error

	VoteCount(pollID domain.PollID, choiceID domain.ChoiceID) (uint64, error)
	PutVoteCount(pollID domain.PollID, choiceID domain.ChoiceID, count uint64) error

	HasVoted(pollID domain.PollID, voter domain.AccountID) (bool, error)
	MarkVoted(pollID domain.PollID, voter domain.AccountID) error
}

// StateStore runs calls against persisted state. Writes made inside Update
// are committed only when fn returns nil; any error discards all of them.
type StateStore interface {
	Update(ctx context.Context, fn func(tx StateTx) error) error
	View(ctx context.Context, fn func(tx StateTx) error) error
	Close() error
}
