package audit

import "time"

// Event is an immutable, append-only record of one inbound webhook delivery.
//
// Invariants:
// - Events are never updated or deleted.
// - Every delivery produces exactly one event, including provider retries;
//   the trail is a complete log of inbound traffic, not a deduplicated one.
// - TenantID is nil when routing failed; that is still a valid event.
//
// Storage recommendation (Postgres):
// - Table webhook_events with an INSERT-only policy.
// - Optional: trigger to prevent UPDATE/DELETE.
// - Optional: partition by time for retention.

type Event struct {
	ID string `json:"id" db:"id"`

	// Source tags the upstream system, e.g. "retell".
	Source string `json:"source" db:"source"`

	// TenantID is the resolved tenant, nil when no tenant matched.
	TenantID *string `json:"tenant_id,omitempty" db:"tenant_id"`

	ToNumber   *string `json:"to_number,omitempty" db:"to_number"`
	FromNumber *string `json:"from_number,omitempty" db:"from_number"`

	// Status is the provider's event/status label, if any was communicated.
	Status *string `json:"status,omitempty" db:"status"`

	// ProviderError is populated only when the payload itself carried an error.
	ProviderError *string `json:"provider_error,omitempty" db:"provider_error"`

	// Payload preserves the original request body verbatim.
	Payload string `json:"payload" db:"payload"`

	ReceivedAt time.Time `json:"received_at" db:"received_at"`
}
