package reporting

import (
	"context"
	"sync"
	"time"

	"receptionist-api/internal/calllog"
)

// MemoryRepo is an in-memory Repository for tests and local development.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows []calllog.CallLog
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (m *MemoryRepo) Add(rows ...calllog.CallLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, rows...)
}

func (m *MemoryRepo) ListCalls(ctx context.Context, tenantID string, from, to time.Time) ([]calllog.CallLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []calllog.CallLog
	for _, c := range m.rows {
		if c.TenantID != tenantID {
			continue
		}
		if c.StartedAt.Before(from) || c.StartedAt.After(to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
