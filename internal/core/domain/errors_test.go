package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAndCode(t *testing.T) {
	tests := []struct {
		err  error
		kind ErrorKind
		code string
	}{
		{ErrPollWithIDAlreadyExists, KindConflict, "PollWithIdAlreadyExists"},
		{ErrPollWithIDDoesNotExist, KindNotFound, "PollWithIdDoesNotExist"},
		{ErrPollHasEnded, KindStateViolation, "PollHasEnded"},
		{ErrOnlyOwnerCanEndPoll, KindAuthorization, "OnlyOwnerCanEndPoll"},
		{ErrContractIsPaused, KindOperationalGate, "ContractIsPaused"},
		{fmt.Errorf("vote: %w", ErrCallerAlreadyVotedOnPoll), KindConflict, "CallerAlreadyVotedOnPoll"},
		{&UpgradeError{Reason: "no such code"}, KindUpgradeFailure, "FailedToSetCodeHash"},
		{errors.New("connection reset"), KindInternal, "Internal"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.code, CodeOf(tt.err))
		})
	}
}

func TestUpgradeErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("set_code: %w", &UpgradeError{Reason: "unknown hash"})

	assert.ErrorIs(t, err, ErrFailedToSetCodeHash)
	assert.NotErrorIs(t, err, ErrCallerIsNotAdmin)
	assert.EqualError(t, err, "set_code: failed to set code hash: unknown hash")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "state_violation", KindStateViolation.String())
	assert.Equal(t, "internal", ErrorKind(99).String())
}
