package tenant

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo reads tenants from the tenants table.
// This service never writes tenants; provisioning happens elsewhere.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetByInboundNumber(ctx context.Context, number string) (Tenant, error) {
	// LIMIT 1: if a number is double-provisioned the first row wins.
	const q = `
SELECT id, name, inbound_number, timezone, created_at, updated_at
FROM tenants
WHERE inbound_number = $1
LIMIT 1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, number))
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Tenant, error) {
	const q = `
SELECT id, name, inbound_number, timezone, created_at, updated_at
FROM tenants
WHERE id = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) scanOne(row *sql.Row) (Tenant, error) {
	var t Tenant
	var number, tz sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &number, &tz, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tenant{}, ErrNotFound
		}
		return Tenant{}, err
	}
	t.InboundNumber = number.String
	t.Timezone = tz.String
	return t, nil
}
