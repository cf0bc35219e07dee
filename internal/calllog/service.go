package calllog

import (
	"context"
	"errors"
	"time"
)

// Repository is the persistence contract for call logs.
//
// Upsert must be atomic on the CallID unique key: concurrent writers for
// the same call may interleave, but must never produce two rows.
type Repository interface {
	Upsert(ctx context.Context, c CallLog) error
	GetByCallID(ctx context.Context, callID string) (CallLog, error)
	ListByTenant(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]CallLog, error)
}

var (
	ErrNotFound = errors.New("calllog: not found")
)

// Service merge-writes call rows from normalized webhook events.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Record upserts a call row. It returns false when the write was skipped
// because the call id or tenant id is missing; a call cannot be logged
// without knowing which call it is and which tenant it belongs to. That is
// a deliberate no-op, not an error.
func (s *Service) Record(ctx context.Context, c CallLog) (bool, error) {
	if s.repo == nil {
		return false, errors.New("calllog: repository not configured")
	}
	if c.CallID == "" || c.TenantID == "" {
		return false, nil
	}

	now := s.clock().UTC()
	if c.StartedAt.IsZero() {
		// A call must always have some recorded start time.
		c.StartedAt = now
	}
	if c.Status == "" {
		c.Status = StatusReceived
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	return true, s.repo.Upsert(ctx, c)
}

// Get returns a single call row by provider call id.
func (s *Service) Get(ctx context.Context, callID string) (CallLog, error) {
	if s.repo == nil {
		return CallLog{}, errors.New("calllog: repository not configured")
	}
	return s.repo.GetByCallID(ctx, callID)
}

// List returns a tenant's calls, newest first. Zero time bounds mean
// unbounded on that side; limit <= 0 takes the repository default.
func (s *Service) List(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]CallLog, error) {
	if s.repo == nil {
		return nil, errors.New("calllog: repository not configured")
	}
	if tenantID == "" {
		return nil, errors.New("calllog: tenant id required")
	}
	return s.repo.ListByTenant(ctx, tenantID, from, to, limit)
}
