package domain

import "errors"

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindConflict
	KindStateViolation
	KindAuthorization
	KindOperationalGate
	KindUpgradeFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStateViolation:
		return "state_violation"
	case KindAuthorization:
		return "authorization"
	case KindOperationalGate:
		return "operational_gate"
	case KindUpgradeFailure:
		return "upgrade_failure"
	default:
		return "internal"
	}
}

// ContractError is a rejection produced by the contract itself. Code is the
// stable identifier clients match on.
type ContractError struct {
	Code string
	Kind ErrorKind
	msg  string
}

func (e *ContractError) Error() string {
	return e.msg
}

func newContractError(code string, kind ErrorKind, msg string) *ContractError {
	return &ContractError{Code: code, Kind: kind, msg: msg}
}

var (
	ErrPollWithIDAlreadyExists      = newContractError("PollWithIdAlreadyExists", KindConflict, "poll with id already exists")
	ErrPollWithIDDoesNotExist       = newContractError("PollWithIdDoesNotExist", KindNotFound, "poll with id does not exist")
	ErrPollHasNotStarted            = newContractError("PollHasNotStarted", KindStateViolation, "poll has not started")
	ErrPollHasStarted               = newContractError("PollHasStarted", KindStateViolation, "poll has started")
	ErrPollHasEnded                 = newContractError("PollHasEnded", KindStateViolation, "poll has ended")
	ErrOnlyOwnerCanAddChoice        = newContractError("OnlyOwnerCanAddChoice", KindAuthorization, "only the poll owner can add choices")
	ErrOnlyOwnerCanStartPoll        = newContractError("OnlyOwnerCanStartPoll", KindAuthorization, "only the poll owner can start the poll")
	ErrOnlyOwnerCanEndPoll          = newContractError("OnlyOwnerCanEndPoll", KindAuthorization, "only the poll owner can end the poll")
	ErrCannotStartPollWithNoChoices = newContractError("CannotStartPollWithNoChoices", KindStateViolation, "cannot start a poll with no choices")
	ErrChoiceWithIDAlreadyExists    = newContractError("ChoiceWithIdAlreadyExists", KindConflict, "choice with id already exists")
	ErrChoiceWithIDDoesNotExist     = newContractError("ChoiceWithIdDoesNotExist", KindNotFound, "choice with id does not exist")
	ErrCallerAlreadyVotedOnPoll     = newContractError("CallerAlreadyVotedOnPoll", KindConflict, "caller already voted on poll")
	ErrContractIsPaused             = newContractError("ContractIsPaused", KindOperationalGate, "contract is paused")
	ErrCallerIsNotAdmin             = newContractError("CallerIsNotAdmin", KindAuthorization, "caller is not the admin")
	ErrFailedToSetCodeHash          = newContractError("FailedToSetCodeHash", KindUpgradeFailure, "failed to set code hash")
	ErrContractNotInstantiated      = newContractError("ContractNotInstantiated", KindOperationalGate, "contract is not instantiated")
	ErrContractAlreadyInstantiated  = newContractError("ContractAlreadyInstantiated", KindConflict, "contract is already instantiated")
)

// UpgradeError wraps the diagnostic returned by the code installer. It
// matches ErrFailedToSetCodeHash under errors.Is.
type UpgradeError struct {
	Reason string
}

func (e *UpgradeError) Error() string {
	return ErrFailedToSetCodeHash.msg + ": " + e.Reason
}

func (e *UpgradeError) Is(target error) bool {
	return target == ErrFailedToSetCodeHash
}

// KindOf classifies err. Anything not raised by the contract is internal.
func KindOf(err error) ErrorKind {
	var upgradeErr *UpgradeError
	if errors.As(err, &upgradeErr) {
		return KindUpgradeFailure
	}
	var contractErr *ContractError
	if errors.As(err, &contractErr) {
		return contractErr.Kind
	}
	return KindInternal
}

// CodeOf returns the wire code for err, or "Internal".
func CodeOf(err error) string {
	var upgradeErr *UpgradeError
	if errors.As(err, &upgradeErr) {
		return ErrFailedToSetCodeHash.Code
	}
	var contractErr *ContractError
	if errors.As(err, &contractErr) {
		return contractErr.Code
	}
	return "Internal"
}
