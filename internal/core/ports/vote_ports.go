package ports

import (
	"context"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

type VoteService interface {
	Vote(ctx context.Context, inv domain.Invocation, pollID domain.PollID, choiceID domain.ChoiceID) error
}
