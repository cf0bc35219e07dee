package tenant

import "time"

// Tenant is a restaurant account.
//
// Routing invariant: each tenant owns at most one inbound phone number and
// that number is how webhook deliveries are attributed. Numbers are assumed
// provisioned 1:1; duplicate provisioning is a data-quality problem, not a
// case this service resolves.

type Tenant struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	// InboundNumber is the E.164 number the provider answers for this tenant.
	// Empty means no number is provisioned yet.
	InboundNumber string `json:"inbound_number" db:"inbound_number"`

	Timezone string `json:"timezone,omitempty" db:"timezone"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
