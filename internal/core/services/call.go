package services

import (
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

// call is the state of one contract invocation: the open transaction, the
// invocation context, the contract config as of call start and the events
// to publish if the call commits.
type call struct {
	tx     ports.StateTx
	inv    domain.Invocation
	cfg    domain.ContractConfig
	events []domain.Event
}

func (c *call) emit(event domain.Event) {
	c.events = append(c.events, event)
}
