package ports

import (
	"context"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

type PollService interface {
	CreatePoll(ctx context.Context, inv domain.Invocation, id domain.PollID, description string) error
	AddChoice(ctx context.Context, inv domain.Invocation, pollID domain.PollID, choiceID domain.ChoiceID, description string) error
	StartPoll(ctx context.Context, inv domain.Invocation, id domain.PollID) error
	EndPoll(ctx context.Context, inv domain.Invocation, id domain.PollID) error
	GetChoices(ctx context.Context, pollID domain.PollID) ([]domain.ChoiceEntry, error)
}

type ReportService interface {
	GetReport(ctx context.Context, pollID domain.PollID) (*domain.PollReport, error)
}

// VotingContract is the full set of operations a contract instance accepts.
type VotingContract interface {
	PollService
	VoteService
	ReportService
	AdminService
}
