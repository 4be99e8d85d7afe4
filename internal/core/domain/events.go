package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Event is a state change recorded by a committed call. Topics are the
// indexed identifiers subscribers filter on.
type Event interface {
	EventName() string
	Topics() []string
}

type PollCreated struct {
	PollID      PollID    `json:"poll_id"`
	Description string    `json:"description"`
	Owner       AccountID `json:"owner"`
}

func (PollCreated) EventName() string { return "PollCreated" }

func (e PollCreated) Topics() []string {
	return []string{pollTopic(e.PollID), "owner=" + e.Owner.String()}
}

type ChoiceAdded struct {
	PollID      PollID   `json:"poll_id"`
	ChoiceID    ChoiceID `json:"choice_id"`
	Description string   `json:"description"`
}

func (ChoiceAdded) EventName() string { return "ChoiceAdded" }

func (e ChoiceAdded) Topics() []string {
	return []string{pollTopic(e.PollID), "choice_id=" + strconv.FormatUint(uint64(e.ChoiceID), 10)}
}

type PollStarted struct {
	PollID PollID `json:"poll_id"`
}

func (PollStarted) EventName() string { return "PollStarted" }

func (e PollStarted) Topics() []string { return []string{pollTopic(e.PollID)} }

type PollEnded struct {
	PollID PollID    `json:"poll_id"`
	Winner *ChoiceID `json:"winner"`
}

func (PollEnded) EventName() string { return "PollEnded" }

func (e PollEnded) Topics() []string { return []string{pollTopic(e.PollID)} }

func pollTopic(id PollID) string {
	return "poll_id=" + strconv.FormatUint(uint64(id), 10)
}

// EventEnvelope is what event sinks receive once a call has committed.
type EventEnvelope struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Topics    []string  `json:"topics"`
	Payload   Event     `json:"payload"`
	RequestID string    `json:"request_id,omitempty"`
	EmittedAt time.Time `json:"emitted_at"`
}

func NewEventEnvelope(event Event, requestID string, now time.Time) EventEnvelope {
	return EventEnvelope{
		ID:        uuid.New(),
		Name:      event.EventName(),
		Topics:    event.Topics(),
		Payload:   event,
		RequestID: requestID,
		EmittedAt: now.UTC(),
	}
}

// PollID returns the poll the envelope refers to.
func (e EventEnvelope) PollID() PollID {
	switch ev := e.Payload.(type) {
	case PollCreated:
		return ev.PollID
	case ChoiceAdded:
		return ev.PollID
	case PollStarted:
		return ev.PollID
	case PollEnded:
		return ev.PollID
	}
	return 0
}
