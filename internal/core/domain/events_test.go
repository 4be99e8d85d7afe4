package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventEnvelope(t *testing.T) {
	winner := ChoiceID(3)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", -7200))

	env := NewEventEnvelope(PollEnded{PollID: 11, Winner: &winner}, "req-1", now)

	assert.Equal(t, "PollEnded", env.Name)
	assert.Equal(t, []string{"poll_id=11"}, env.Topics)
	assert.Equal(t, PollID(11), env.PollID())
	assert.Equal(t, time.UTC, env.EmittedAt.Location())
	assert.NotEqual(t, uuid.Nil, env.ID)

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "req-1", decoded["request_id"])
	assert.Equal(t, map[string]any{"poll_id": float64(11), "winner": float64(3)}, decoded["payload"])
}

func TestEventTopics(t *testing.T) {
	owner := uuid.New()

	assert.Equal(t, []string{"poll_id=1", "owner=" + owner.String()}, PollCreated{PollID: 1, Owner: owner}.Topics())
	assert.Equal(t, []string{"poll_id=1", "choice_id=255"}, ChoiceAdded{PollID: 1, ChoiceID: 255}.Topics())
	assert.Equal(t, []string{"poll_id=18446744073709551615"}, PollStarted{PollID: ^PollID(0)}.Topics())
}
