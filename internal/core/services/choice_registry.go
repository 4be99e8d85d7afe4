package services

import (
	"fmt"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

type choiceRegistry struct{}

func (choiceRegistry) add(tx ports.StateTx, pollID domain.PollID, choiceID domain.ChoiceID, description string) error {
	exists, err := tx.HasChoice(pollID, choiceID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrChoiceWithIDAlreadyExists
	}

	ids, err := tx.ChoiceIDs(pollID)
	if err != nil {
		return err
	}
	ids = append(ids, choiceID)

	if err := tx.PutChoice(pollID, choiceID, domain.Choice{Description: description}); err != nil {
		return err
	}
	return tx.PutChoiceIDs(pollID, ids)
}

func (choiceRegistry) exists(tx ports.StateTx, pollID domain.PollID, choiceID domain.ChoiceID) (bool, error) {
	return tx.HasChoice(pollID, choiceID)
}

func (choiceRegistry) ids(tx ports.StateTx, pollID domain.PollID) ([]domain.ChoiceID, error) {
	return tx.ChoiceIDs(pollID)
}

// list returns the poll's choices in insertion order. An unknown poll has no
// choices.
func (r choiceRegistry) list(tx ports.StateTx, pollID domain.PollID) ([]domain.ChoiceEntry, error) {
	ids, err := tx.ChoiceIDs(pollID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ChoiceEntry, 0, len(ids))
	for _, id := range ids {
		choice, ok, err := tx.GetChoice(pollID, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("choice %d of poll %d is indexed but not stored", id, pollID)
		}
		entries = append(entries, domain.ChoiceEntry{ID: id, Choice: choice})
	}
	return entries, nil
}
