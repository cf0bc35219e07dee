package calllog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory repository useful for tests.
// Upsert semantics match the SQL backends: whole-row overwrite keyed by CallID.

type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]CallLog
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]CallLog)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, c CallLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.rows[c.CallID]; ok {
		// created_at survives; everything else is the incoming row.
		c.CreatedAt = prev.CreatedAt
	}
	r.rows[c.CallID] = c
	return nil
}

func (r *MemoryRepo) GetByCallID(ctx context.Context, callID string) (CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[callID]
	if !ok {
		return CallLog{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) ListByTenant(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []CallLog
	for _, c := range r.rows {
		if c.TenantID != tenantID {
			continue
		}
		if !from.IsZero() && c.StartedAt.Before(from) {
			continue
		}
		if !to.IsZero() && c.StartedAt.After(to) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len reports the number of distinct call rows (test helper).
func (r *MemoryRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
