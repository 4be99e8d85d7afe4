package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

func TestUpdateCommitsOnSuccess(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	owner := uuid.New()

	err := store.Update(ctx, func(tx ports.StateTx) error {
		if err := tx.PutPoll(1, domain.Poll{Description: "lunch", Owner: owner}); err != nil {
			return err
		}
		return tx.PutChoiceIDs(1, []domain.ChoiceID{3, 1})
	})
	require.NoError(t, err)

	err = store.View(ctx, func(tx ports.StateTx) error {
		poll, ok, err := tx.GetPoll(1)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "lunch", poll.Description)
		assert.Equal(t, owner, poll.Owner)

		ids, err := tx.ChoiceIDs(1)
		require.NoError(t, err)
		assert.Equal(t, []domain.ChoiceID{3, 1}, ids)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateDiscardsWritesOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	voter := uuid.New()
	boom := errors.New("boom")

	err := store.Update(ctx, func(tx ports.StateTx) error {
		require.NoError(t, tx.SaveConfig(domain.ContractConfig{Admin: voter}))
		require.NoError(t, tx.PutVoteCount(1, 2, 5))
		require.NoError(t, tx.MarkVoted(1, voter))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.View(ctx, func(tx ports.StateTx) error {
		_, ok, err := tx.LoadConfig()
		require.NoError(t, err)
		assert.False(t, ok)

		count, err := tx.VoteCount(1, 2)
		require.NoError(t, err)
		assert.Zero(t, count)

		voted, err := tx.HasVoted(1, voter)
		require.NoError(t, err)
		assert.False(t, voted)
		return nil
	})
	require.NoError(t, err)
}

func TestChoiceIDsAreNotAliased(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tx ports.StateTx) error {
		return tx.PutChoiceIDs(1, []domain.ChoiceID{1})
	}))

	err := store.Update(ctx, func(tx ports.StateTx) error {
		ids, err := tx.ChoiceIDs(1)
		require.NoError(t, err)
		ids[0] = 9
		return errors.New("abort")
	})
	require.Error(t, err)

	require.NoError(t, store.View(ctx, func(tx ports.StateTx) error {
		ids, err := tx.ChoiceIDs(1)
		require.NoError(t, err)
		assert.Equal(t, []domain.ChoiceID{1}, ids)
		return nil
	}))
}

func TestViewRejectsWrites(t *testing.T) {
	store := NewStore()

	err := store.View(context.Background(), func(tx ports.StateTx) error {
		return tx.PutPoll(1, domain.Poll{})
	})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestCanceledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Update(ctx, func(tx ports.StateTx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestUpdateRestoresOverwrittenValues(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	admin, voter := uuid.New(), uuid.New()
	winner := domain.ChoiceID(1)

	require.NoError(t, store.Update(ctx, func(tx ports.StateTx) error {
		require.NoError(t, tx.SaveConfig(domain.ContractConfig{Admin: admin}))
		require.NoError(t, tx.PutPoll(1, domain.Poll{Description: "lunch", Owner: admin}))
		require.NoError(t, tx.PutChoice(1, 1, domain.Choice{Description: "pizza"}))
		require.NoError(t, tx.PutChoiceIDs(1, []domain.ChoiceID{1}))
		return tx.PutVoteCount(1, 1, 4)
	}))
	before := store.state

	err := store.Update(ctx, func(tx ports.StateTx) error {
		require.NoError(t, tx.SaveConfig(domain.ContractConfig{Admin: voter, Paused: true}))
		require.NoError(t, tx.PutPoll(1, domain.Poll{Description: "dinner", Status: domain.PollStatusEnded, Winner: &winner}))
		require.NoError(t, tx.PutChoice(1, 1, domain.Choice{Description: "sushi"}))
		require.NoError(t, tx.PutChoiceIDs(1, []domain.ChoiceID{1, 2}))
		require.NoError(t, tx.PutVoteCount(1, 1, 5))
		require.NoError(t, tx.PutVoteCount(1, 1, 6))
		require.NoError(t, tx.MarkVoted(1, voter))
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")
	assert.Same(t, before, store.state)

	require.NoError(t, store.View(ctx, func(tx ports.StateTx) error {
		cfg, ok, err := tx.LoadConfig()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, domain.ContractConfig{Admin: admin}, cfg)

		poll, _, _ := tx.GetPoll(1)
		assert.Equal(t, "lunch", poll.Description)
		assert.Nil(t, poll.Winner)

		choice, _, _ := tx.GetChoice(1, 1)
		assert.Equal(t, "pizza", choice.Description)

		ids, _ := tx.ChoiceIDs(1)
		assert.Equal(t, []domain.ChoiceID{1}, ids)

		count, _ := tx.VoteCount(1, 1)
		assert.Equal(t, uint64(4), count)

		voted, _ := tx.HasVoted(1, voter)
		assert.False(t, voted)
		return nil
	}))
}

func TestUpdateRollsBackOnPanic(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = store.Update(ctx, func(tx ports.StateTx) error {
			require.NoError(t, tx.PutPoll(9, domain.Poll{Description: "half"}))
			panic("crash")
		})
	})

	require.NoError(t, store.View(ctx, func(tx ports.StateTx) error {
		_, ok, err := tx.GetPoll(9)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	}))
}
