package calllog

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresRepo persists call logs in the call_logs table.
//
// The upsert relies on the call_id UNIQUE constraint. ON CONFLICT DO UPDATE
// makes retried deliveries idempotent at the row level; two concurrent
// writers still race on field values (last commit wins), which is accepted.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Upsert(ctx context.Context, c CallLog) error {
	// Whole-row overwrite on conflict; created_at keeps the first sighting.
	const q = `
INSERT INTO call_logs (
  call_id, tenant_id, from_number, to_number, started_at, ended_at,
  duration_seconds, status, recording_url, transcript, payload, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
)
ON CONFLICT (call_id)
DO UPDATE SET tenant_id        = EXCLUDED.tenant_id,
              from_number      = EXCLUDED.from_number,
              to_number        = EXCLUDED.to_number,
              started_at       = EXCLUDED.started_at,
              ended_at         = EXCLUDED.ended_at,
              duration_seconds = EXCLUDED.duration_seconds,
              status           = EXCLUDED.status,
              recording_url    = EXCLUDED.recording_url,
              transcript       = EXCLUDED.transcript,
              payload          = EXCLUDED.payload
`
	_, err := r.db.ExecContext(ctx, q,
		c.CallID,
		c.TenantID,
		c.FromNumber,
		c.ToNumber,
		c.StartedAt,
		c.EndedAt,
		c.DurationSeconds,
		c.Status,
		c.RecordingURL,
		c.Transcript,
		c.Payload,
		c.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) GetByCallID(ctx context.Context, callID string) (CallLog, error) {
	const q = `
SELECT call_id, tenant_id, from_number, to_number, started_at, ended_at,
       duration_seconds, status, recording_url, transcript, payload, created_at
FROM call_logs
WHERE call_id = $1
`
	var c CallLog
	err := r.db.QueryRowContext(ctx, q, callID).Scan(
		&c.CallID,
		&c.TenantID,
		&c.FromNumber,
		&c.ToNumber,
		&c.StartedAt,
		&c.EndedAt,
		&c.DurationSeconds,
		&c.Status,
		&c.RecordingURL,
		&c.Transcript,
		&c.Payload,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CallLog{}, ErrNotFound
		}
		return CallLog{}, err
	}
	return c, nil
}

func (r *PostgresRepo) ListByTenant(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]CallLog, error) {
	const q = `
SELECT call_id, tenant_id, from_number, to_number, started_at, ended_at,
       duration_seconds, status, recording_url, transcript, payload, created_at
FROM call_logs
WHERE tenant_id = $1
  AND ($2::timestamptz IS NULL OR started_at >= $2)
  AND ($3::timestamptz IS NULL OR started_at <= $3)
ORDER BY started_at DESC
LIMIT $4
`
	var fromArg, toArg any
	if !from.IsZero() {
		fromArg = from
	}
	if !to.IsZero() {
		toArg = to
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, q, tenantID, fromArg, toArg, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CallLog
	for rows.Next() {
		var c CallLog
		if err := rows.Scan(
			&c.CallID,
			&c.TenantID,
			&c.FromNumber,
			&c.ToNumber,
			&c.StartedAt,
			&c.EndedAt,
			&c.DurationSeconds,
			&c.Status,
			&c.RecordingURL,
			&c.Transcript,
			&c.Payload,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
