package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}
	return pgContainer, connStr, nil
}

func setupStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	db, err := Open(ctx, connStr)
	require.NoError(t, err)

	applied, err := Migrate(ctx, db, false)
	require.NoError(t, err)
	require.Equal(t, []string{"000001_init.up.sql"}, applied)

	store := NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store, db
}

func TestStore(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()
	owner := uuid.New()
	voter := uuid.New()
	pollID := domain.PollID(math.MaxUint64)

	t.Run("absent rows", func(t *testing.T) {
		err := store.View(ctx, func(tx ports.StateTx) error {
			_, ok, err := tx.LoadConfig()
			require.NoError(t, err)
			assert.False(t, ok)

			_, ok, err = tx.GetPoll(pollID)
			require.NoError(t, err)
			assert.False(t, ok)

			ids, err := tx.ChoiceIDs(pollID)
			require.NoError(t, err)
			assert.Empty(t, ids)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("write and read back", func(t *testing.T) {
		err := store.Update(ctx, func(tx ports.StateTx) error {
			require.NoError(t, tx.SaveConfig(domain.ContractConfig{Admin: owner}))
			require.NoError(t, tx.PutPoll(pollID, domain.Poll{Description: "max id", Owner: owner}))
			require.NoError(t, tx.PutChoice(pollID, 255, domain.Choice{Description: "last"}))
			require.NoError(t, tx.PutChoice(pollID, 0, domain.Choice{Description: "first"}))
			require.NoError(t, tx.PutChoiceIDs(pollID, []domain.ChoiceID{255, 0}))
			require.NoError(t, tx.PutVoteCount(pollID, 255, 3))
			return tx.MarkVoted(pollID, voter)
		})
		require.NoError(t, err)

		err = store.View(ctx, func(tx ports.StateTx) error {
			cfg, ok, err := tx.LoadConfig()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, owner, cfg.Admin)
			assert.False(t, cfg.Paused)

			poll, ok, err := tx.GetPoll(pollID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "max id", poll.Description)
			assert.Equal(t, domain.PollStatusNotStarted, poll.Status)
			assert.Nil(t, poll.Winner)

			ids, err := tx.ChoiceIDs(pollID)
			require.NoError(t, err)
			assert.Equal(t, []domain.ChoiceID{255, 0}, ids)

			choice, ok, err := tx.GetChoice(pollID, 255)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "last", choice.Description)

			count, err := tx.VoteCount(pollID, 255)
			require.NoError(t, err)
			assert.Equal(t, uint64(3), count)

			count, err = tx.VoteCount(pollID, 0)
			require.NoError(t, err)
			assert.Zero(t, count)

			voted, err := tx.HasVoted(pollID, voter)
			require.NoError(t, err)
			assert.True(t, voted)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("winner and status update", func(t *testing.T) {
		winner := domain.ChoiceID(255)
		err := store.Update(ctx, func(tx ports.StateTx) error {
			return tx.PutPoll(pollID, domain.Poll{
				Description: "max id",
				Owner:       owner,
				Status:      domain.PollStatusEnded,
				Winner:      &winner,
			})
		})
		require.NoError(t, err)

		err = store.View(ctx, func(tx ports.StateTx) error {
			poll, _, err := tx.GetPoll(pollID)
			require.NoError(t, err)
			assert.Equal(t, domain.PollStatusEnded, poll.Status)
			require.NotNil(t, poll.Winner)
			assert.Equal(t, winner, *poll.Winner)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("failed update rolls back", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.Update(ctx, func(tx ports.StateTx) error {
			require.NoError(t, tx.SaveConfig(domain.ContractConfig{Admin: owner, Paused: true}))
			return boom
		})
		require.ErrorIs(t, err, boom)

		err = store.View(ctx, func(tx ports.StateTx) error {
			cfg, _, err := tx.LoadConfig()
			require.NoError(t, err)
			assert.False(t, cfg.Paused)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestMigrateDown(t *testing.T) {
	_, db := setupStore(t)
	ctx := context.Background()

	applied, err := Migrate(ctx, db, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init.down.sql"}, applied)

	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'polls'`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}
