package ports

import (
	"context"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

type CodeInstaller interface {
	Upload(ctx context.Context, hash domain.CodeHash) error
	Install(ctx context.Context, hash domain.CodeHash) error
	Active() (domain.CodeHash, bool)
}
