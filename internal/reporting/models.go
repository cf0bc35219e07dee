package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// CallsSummaryRequest requests aggregated call metrics.
// Tenant isolation: TenantID is required.

type CallsSummaryRequest struct {
	TenantID string    `json:"tenant_id"`
	Range    TimeRange `json:"range"`
}

type CallsSummary struct {
	TenantID string `json:"tenant_id"`

	TotalCalls    int `json:"total_calls"`
	EndedCalls    int `json:"ended_calls"`
	AnalyzedCalls int `json:"analyzed_calls"`
	InFlightCalls int `json:"in_flight_calls"`
	FailedCalls   int `json:"failed_calls"`

	TotalDurationSeconds   int `json:"total_duration_seconds"`
	AverageDurationSeconds int `json:"average_duration_seconds"`

	RecordedCalls    int `json:"recorded_calls"`
	TranscribedCalls int `json:"transcribed_calls"`

	// UniqueCallers is the count of distinct from_numbers in range.
	UniqueCallers int `json:"unique_callers"`
}
