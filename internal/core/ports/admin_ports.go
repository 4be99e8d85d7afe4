package ports

import (
	"context"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

type AdminService interface {
	// Instantiate records the caller as admin of a fresh contract instance.
	Instantiate(ctx context.Context, inv domain.Invocation) error
	GetConfig(ctx context.Context) (domain.ContractConfig, error)
	Pause(ctx context.Context, inv domain.Invocation) error
	Unpause(ctx context.Context, inv domain.Invocation) error
	ChangeAdmin(ctx context.Context, inv domain.Invocation, newAdmin domain.AccountID) error
	// UploadCode makes hash available to a later SetCode.
	UploadCode(ctx context.Context, inv domain.Invocation, hash domain.CodeHash) error
	SetCode(ctx context.Context, inv domain.Invocation, hash domain.CodeHash) error
}
