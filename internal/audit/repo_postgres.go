package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends webhook events to the webhook_events table.
// INSERT-only; the table should reject UPDATE/DELETE at the policy level.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO webhook_events (
  id, source, tenant_id, to_number, from_number, status, provider_error, payload, received_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Source,
		e.TenantID,
		e.ToNumber,
		e.FromNumber,
		e.Status,
		e.ProviderError,
		e.Payload,
		e.ReceivedAt,
	)
	return err
}
