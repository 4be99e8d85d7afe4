package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

// Poll ids are uint64 and stored in BIGINT columns; ids above MaxInt64 are
// kept as their two's complement and read back unchanged.

func (t *tx) GetPoll(id domain.PollID) (domain.Poll, bool, error) {
	query := `
		SELECT description, status, owner, winner
		FROM polls
		WHERE id = $1
	`

	var (
		poll   domain.Poll
		status int16
		winner sql.NullInt16
	)
	err := t.tx.QueryRowContext(t.ctx, query, int64(id)).Scan(&poll.Description, &status, &poll.Owner, &winner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Poll{}, false, nil
		}
		return domain.Poll{}, false, fmt.Errorf("failed to get poll: %w", err)
	}

	poll.Status = domain.PollStatus(status)
	if winner.Valid {
		w := domain.ChoiceID(winner.Int16)
		poll.Winner = &w
	}
	return poll, true, nil
}

func (t *tx) PutPoll(id domain.PollID, poll domain.Poll) error {
	query := `
		INSERT INTO polls (id, description, status, owner, winner)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET description = EXCLUDED.description,
		    status = EXCLUDED.status,
		    owner = EXCLUDED.owner,
		    winner = EXCLUDED.winner,
		    updated_at = NOW()
	`

	var winner sql.NullInt16
	if poll.Winner != nil {
		winner = sql.NullInt16{Int16: int16(*poll.Winner), Valid: true}
	}

	_, err := t.tx.ExecContext(t.ctx, query, int64(id), poll.Description, int16(poll.Status), poll.Owner, winner)
	if err != nil {
		return fmt.Errorf("failed to save poll: %w", err)
	}
	return nil
}

func (t *tx) GetChoice(pollID domain.PollID, choiceID domain.ChoiceID) (domain.Choice, bool, error) {
	query := `SELECT description FROM choices WHERE poll_id = $1 AND choice_id = $2`

	var choice domain.Choice
	err := t.tx.QueryRowContext(t.ctx, query, int64(pollID), int16(choiceID)).Scan(&choice.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Choice{}, false, nil
		}
		return domain.Choice{}, false, fmt.Errorf("failed to get choice: %w", err)
	}
	return choice, true, nil
}

func (t *tx) HasChoice(pollID domain.PollID, choiceID domain.ChoiceID) (bool, error) {
	query := `SELECT 1 FROM choices WHERE poll_id = $1 AND choice_id = $2 LIMIT 1`

	var exists int
	err := t.tx.QueryRowContext(t.ctx, query, int64(pollID), int16(choiceID)).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check choice: %w", err)
	}
	return true, nil
}

func (t *tx) PutChoice(pollID domain.PollID, choiceID domain.ChoiceID, choice domain.Choice) error {
	query := `
		INSERT INTO choices (poll_id, choice_id, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (poll_id, choice_id) DO UPDATE
		SET description = EXCLUDED.description
	`
	if _, err := t.tx.ExecContext(t.ctx, query, int64(pollID), int16(choiceID), choice.Description); err != nil {
		return fmt.Errorf("failed to save choice: %w", err)
	}
	return nil
}

func (t *tx) ChoiceIDs(pollID domain.PollID) ([]domain.ChoiceID, error) {
	query := `SELECT choice_ids FROM choice_index WHERE poll_id = $1`

	var raw pq.Int64Array
	err := t.tx.QueryRowContext(t.ctx, query, int64(pollID)).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get choice index: %w", err)
	}

	ids := make([]domain.ChoiceID, len(raw))
	for i, id := range raw {
		ids[i] = domain.ChoiceID(id)
	}
	return ids, nil
}

func (t *tx) PutChoiceIDs(pollID domain.PollID, ids []domain.ChoiceID) error {
	query := `
		INSERT INTO choice_index (poll_id, choice_ids)
		VALUES ($1, $2)
		ON CONFLICT (poll_id) DO UPDATE
		SET choice_ids = EXCLUDED.choice_ids
	`

	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = int64(id)
	}
	if _, err := t.tx.ExecContext(t.ctx, query, int64(pollID), pq.Array(raw)); err != nil {
		return fmt.Errorf("failed to save choice index: %w", err)
	}
	return nil
}
