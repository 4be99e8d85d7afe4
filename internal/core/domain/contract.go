package domain

// ContractConfig is the process-wide record every call is evaluated against.
// It is created by Instantiate and changed only by admin operations.
type ContractConfig struct {
	Admin  AccountID `json:"admin"`
	Paused bool      `json:"paused"`
}

// Invocation carries the per-call context supplied by the host.
type Invocation struct {
	Caller    AccountID
	RequestID string
}
