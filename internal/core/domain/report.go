package domain

// PollReport is a read-only snapshot of a poll taken at call time.
type PollReport struct {
	ID          PollID         `json:"id" yaml:"id"`
	Description string         `json:"description" yaml:"description"`
	Status      PollStatus     `json:"status" yaml:"status"`
	Owner       AccountID      `json:"owner" yaml:"owner"`
	Choices     []ChoiceReport `json:"choices" yaml:"choices"`
	Winner      *ChoiceID      `json:"winner,omitempty" yaml:"winner,omitempty"`
}

type ChoiceReport struct {
	ID          ChoiceID `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	VoteCount   uint64   `json:"vote_count" yaml:"vote_count"`
}
