package reporting

import (
	"context"
	"time"

	"receptionist-api/internal/calllog"
)

// CallLogRepo adapts a calllog.Repository into a reporting source, so
// summaries read the same table the upserter writes without a second
// storage binding.
type CallLogRepo struct {
	calls calllog.Repository
}

func NewCallLogRepo(calls calllog.Repository) *CallLogRepo {
	return &CallLogRepo{calls: calls}
}

func (r *CallLogRepo) ListCalls(ctx context.Context, tenantID string, from, to time.Time) ([]calllog.CallLog, error) {
	// Summaries need the whole range, not the API page size. 10k calls in
	// one window is far beyond what a single restaurant line sees.
	return r.calls.ListByTenant(ctx, tenantID, from, to, 10000)
}
