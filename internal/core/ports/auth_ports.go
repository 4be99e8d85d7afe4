package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (domain.AccountID, error)
}

type TokenIssuer interface {
	Issue(account domain.AccountID, ttl time.Duration) (string, error)
}
