package upgrade

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vncsmyrnk/pollcontract/internal/core/domain"
)

var (
	ErrZeroHash    = errors.New("code hash is zero")
	ErrUnknownCode = errors.New("no code uploaded for hash")
)

// Registry is the set of code hashes available to the host. Installing a
// hash switches the active code; unknown hashes are refused.
type Registry struct {
	mu     sync.RWMutex
	known  map[domain.CodeHash]struct{}
	active domain.CodeHash
	set    bool
}

func NewRegistry(known ...domain.CodeHash) *Registry {
	r := &Registry{known: make(map[domain.CodeHash]struct{}, len(known))}
	for _, hash := range known {
		r.known[hash] = struct{}{}
	}
	return r
}

// Upload makes hash available for installation. Uploading a known hash is
// a no-op.
func (r *Registry) Upload(ctx context.Context, hash domain.CodeHash) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if hash.IsZero() {
		return ErrZeroHash
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.known[hash] = struct{}{}
	return nil
}

func (r *Registry) Install(ctx context.Context, hash domain.CodeHash) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if hash.IsZero() {
		return ErrZeroHash
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.known[hash]; !ok {
		return fmt.Errorf("%w %s", ErrUnknownCode, hash)
	}
	r.active = hash
	r.set = true
	return nil
}

func (r *Registry) Active() (domain.CodeHash, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active, r.set
}
