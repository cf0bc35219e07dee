package tenant

import (
	"context"
	"sync"
)

// MemoryRepo is a simple in-memory repository useful for tests.
// It is not intended for production use.

type MemoryRepo struct {
	mu      sync.Mutex
	tenants []Tenant
}

func NewMemoryRepo(tenants ...Tenant) *MemoryRepo {
	return &MemoryRepo{tenants: tenants}
}

func (r *MemoryRepo) Add(t Tenant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants = append(r.tenants, t)
}

func (r *MemoryRepo) GetByInboundNumber(ctx context.Context, number string) (Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenants {
		if t.InboundNumber != "" && t.InboundNumber == number {
			return t, nil
		}
	}
	return Tenant{}, ErrNotFound
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return Tenant{}, ErrNotFound
}
