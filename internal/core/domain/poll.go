package domain

import (
	"fmt"
)

type PollID uint64

type ChoiceID uint8

type PollStatus uint8

const (
	PollStatusNotStarted PollStatus = iota
	PollStatusStarted
	PollStatusEnded
)

var pollStatusNames = map[PollStatus]string{
	PollStatusNotStarted: "not_started",
	PollStatusStarted:    "started",
	PollStatusEnded:      "ended",
}

func (s PollStatus) String() string {
	if name, ok := pollStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("PollStatus(%d)", uint8(s))
}

func (s PollStatus) MarshalText() ([]byte, error) {
	name, ok := pollStatusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown poll status %d", uint8(s))
	}
	return []byte(name), nil
}

func (s *PollStatus) UnmarshalText(text []byte) error {
	for status, name := range pollStatusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown poll status %q", text)
}

type Poll struct {
	Description string     `json:"description"`
	Status      PollStatus `json:"status"`
	Owner       AccountID  `json:"owner"`
	Winner      *ChoiceID  `json:"winner,omitempty"`
}

type Choice struct {
	Description string `json:"description"`
}

// ChoiceEntry pairs a choice with its id, as listed by the choice registry.
type ChoiceEntry struct {
	ID ChoiceID `json:"id"`
	Choice
}
