package reporting

import (
	"context"
	"errors"
	"time"

	"receptionist-api/internal/calllog"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting.
//
// IMPORTANT:
// - Methods must enforce tenant filtering.
// - Call rows are the source of truth; do not aggregate from the raw
//   webhook event log (it has one row per delivery, not per call).

type Repository interface {
	ListCalls(ctx context.Context, tenantID string, from, to time.Time) ([]calllog.CallLog, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) CallsSummary(ctx context.Context, req CallsSummaryRequest) (CallsSummary, error) {
	if req.TenantID == "" {
		return CallsSummary{}, ErrInvalidRequest
	}
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return CallsSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return CallsSummary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListCalls(ctx, req.TenantID, req.Range.From, req.Range.To)
	if err != nil {
		return CallsSummary{}, err
	}

	out := CallsSummary{TenantID: req.TenantID}
	callers := map[string]struct{}{}
	for _, c := range rows {
		out.TotalCalls++
		if c.DurationSeconds != nil {
			out.TotalDurationSeconds += *c.DurationSeconds
		}
		if c.RecordingURL != nil && *c.RecordingURL != "" {
			out.RecordedCalls++
		}
		if c.Transcript != nil && *c.Transcript != "" {
			out.TranscribedCalls++
		}
		if c.FromNumber != nil && *c.FromNumber != "" {
			callers[*c.FromNumber] = struct{}{}
		}
		switch c.Status {
		case calllog.StatusEnded:
			out.EndedCalls++
		case calllog.StatusAnalyzed:
			out.AnalyzedCalls++
			out.EndedCalls++ // analyzed implies the call finished
		case calllog.StatusStarted, calllog.StatusReceived:
			out.InFlightCalls++
		default:
			// provider statuses are free-form; anything unrecognized that
			// carries an error-ish label counts as failed
			out.FailedCalls++
		}
	}
	out.UniqueCallers = len(callers)
	if out.TotalCalls > 0 {
		out.AverageDurationSeconds = out.TotalDurationSeconds / out.TotalCalls
	}
	return out, nil
}
