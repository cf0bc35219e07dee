package tenant

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("tenant: not found")

// Repository is the persistence contract for tenant lookups.
// Implementations must return ErrNotFound for a clean miss.
type Repository interface {
	GetByInboundNumber(ctx context.Context, number string) (Tenant, error)
	GetByID(ctx context.Context, id string) (Tenant, error)
}

// Service resolves which tenant owns an inbound phone number.
//
// Contract:
// - A missing number or a clean miss is NOT an error; the caller decides
//   how to proceed without a tenant.
// - Lookup is exact-match on the configured inbound number, limit one row.
// - The optional cache is best-effort: a cache failure falls through to the
//   repository and is never surfaced.
type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Resolve maps an inbound number to its tenant.
// The second return is false when no tenant matches.
func (s *Service) Resolve(ctx context.Context, number string) (Tenant, bool, error) {
	if s.repo == nil {
		return Tenant{}, false, errors.New("tenant: repository not configured")
	}

	number = strings.TrimSpace(number)
	if number == "" {
		return Tenant{}, false, nil
	}

	if s.cache != nil {
		if t, ok := s.cache.Get(ctx, number); ok {
			return t, true, nil
		}
	}

	t, err := s.repo.GetByInboundNumber(ctx, number)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Tenant{}, false, nil
		}
		return Tenant{}, false, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, number, t)
	}
	return t, true, nil
}

// Get fetches a tenant by id (portal profile lookups).
func (s *Service) Get(ctx context.Context, id string) (Tenant, error) {
	if s.repo == nil {
		return Tenant{}, errors.New("tenant: repository not configured")
	}
	if id == "" {
		return Tenant{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}
