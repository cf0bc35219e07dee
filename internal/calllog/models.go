package calllog

import "time"

// CallLog is one logical row per distinct call, keyed by the provider's
// call identifier.
//
// Invariants:
// - At most one row per CallID; repeated delivery merges into the existing
//   row instead of creating a duplicate.
// - Merge semantics are whole-row overwrite: the latest delivery's values
//   replace the stored ones, including nils. Provider webhook ordering is
//   not guaranteed, so a later sparse payload can clobber an earlier rich
//   one. Known weakness, kept deliberately (see DESIGN.md).
// - TenantID is required; a call that cannot be attributed is not logged.

type CallLog struct {
	// CallID is the provider-assigned unique call identifier (upsert key).
	CallID   string `json:"call_id" db:"call_id"`
	TenantID string `json:"tenant_id" db:"tenant_id"`

	FromNumber *string `json:"from_number,omitempty" db:"from_number"`
	ToNumber   *string `json:"to_number,omitempty" db:"to_number"`

	StartedAt time.Time  `json:"started_at" db:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" db:"ended_at"`

	DurationSeconds *int `json:"duration_seconds,omitempty" db:"duration_seconds"`

	Status string `json:"status" db:"status"`

	RecordingURL *string `json:"recording_url,omitempty" db:"recording_url"`
	Transcript   *string `json:"transcript,omitempty" db:"transcript"`

	// Payload is the full raw provider payload for this delivery.
	Payload string `json:"payload,omitempty" db:"payload"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Provider status labels seen in the wild. Status is free-form; these are
// the values the provider currently sends plus our own fallback.
const (
	StatusReceived = "received" // event arrived with no status communicated
	StatusStarted  = "call_started"
	StatusEnded    = "call_ended"
	StatusAnalyzed = "call_analyzed"
)
