package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollStatusText(t *testing.T) {
	for _, status := range []PollStatus{PollStatusNotStarted, PollStatusStarted, PollStatusEnded} {
		raw, err := json.Marshal(status)
		require.NoError(t, err)

		var decoded PollStatus
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, status, decoded)
	}

	raw, err := json.Marshal(PollStatusNotStarted)
	require.NoError(t, err)
	assert.Equal(t, `"not_started"`, string(raw))

	var status PollStatus
	assert.Error(t, json.Unmarshal([]byte(`"paused"`), &status))
	assert.Equal(t, "PollStatus(7)", PollStatus(7).String())
}

func TestChoiceEntryJSON(t *testing.T) {
	raw, err := json.Marshal(ChoiceEntry{ID: 4, Choice: Choice{Description: "tea"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"description":"tea"}`, string(raw))
}
