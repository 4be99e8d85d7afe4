package services

import (
	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

type requirement struct {
	admin  bool
	owner  domain.AccountID
	denied error
}

func adminOnly() requirement {
	return requirement{admin: true, denied: domain.ErrCallerIsNotAdmin}
}

// ownerOf requires the caller to own poll; denied is returned otherwise so
// each call site reports its own error.
func ownerOf(poll domain.Poll, denied error) requirement {
	return requirement{owner: poll.Owner, denied: denied}
}

type accessControl struct{}

func (accessControl) authorize(c *call, req requirement) error {
	expected := req.owner
	if req.admin {
		expected = c.cfg.Admin
	}
	if c.inv.Caller != expected {
		return req.denied
	}
	return nil
}

func (accessControl) ensureNotPaused(c *call) error {
	if c.cfg.Paused {
		return domain.ErrContractIsPaused
	}
	return nil
}
