package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

func (t *tx) VoteCount(pollID domain.PollID, choiceID domain.ChoiceID) (uint64, error) {
	query := `SELECT vote_count FROM vote_tallies WHERE poll_id = $1 AND choice_id = $2`

	var count int64
	err := t.tx.QueryRowContext(t.ctx, query, int64(pollID), int16(choiceID)).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get vote count: %w", err)
	}
	return uint64(count), nil
}

func (t *tx) PutVoteCount(pollID domain.PollID, choiceID domain.ChoiceID, count uint64) error {
	query := `
		INSERT INTO vote_tallies (poll_id, choice_id, vote_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (poll_id, choice_id) DO UPDATE
		SET vote_count = EXCLUDED.vote_count
	`
	if _, err := t.tx.ExecContext(t.ctx, query, int64(pollID), int16(choiceID), int64(count)); err != nil {
		return fmt.Errorf("failed to save vote count: %w", err)
	}
	return nil
}

func (t *tx) HasVoted(pollID domain.PollID, voter domain.AccountID) (bool, error) {
	query := `SELECT 1 FROM vote_ledger WHERE poll_id = $1 AND voter = $2 LIMIT 1`

	var exists int
	err := t.tx.QueryRowContext(t.ctx, query, int64(pollID), voter).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (t *tx) MarkVoted(pollID domain.PollID, voter domain.AccountID) error {
	query := `
		INSERT INTO vote_ledger (poll_id, voter)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := t.tx.ExecContext(t.ctx, query, int64(pollID), voter); err != nil {
		return fmt.Errorf("failed to save vote: %w", err)
	}
	return nil
}
