package supabase

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"receptionist-api/internal/audit"
	"receptionist-api/internal/calllog"
	"receptionist-api/internal/tenant"
)

// Wire row types mirror the PostgREST column names. Domain models stay
// free of transport concerns.

type tenantRow struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	InboundNumber *string   `json:"inbound_number"`
	Timezone      *string   `json:"timezone"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r tenantRow) toDomain() tenant.Tenant {
	t := tenant.Tenant{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.InboundNumber != nil {
		t.InboundNumber = *r.InboundNumber
	}
	if r.Timezone != nil {
		t.Timezone = *r.Timezone
	}
	return t
}

// TenantRepo implements tenant.Repository over PostgREST.
type TenantRepo struct {
	c *Client
}

func NewTenantRepo(c *Client) *TenantRepo { return &TenantRepo{c: c} }

func (r *TenantRepo) GetByInboundNumber(ctx context.Context, number string) (tenant.Tenant, error) {
	filters := url.Values{}
	filters.Set("inbound_number", "eq."+number)
	filters.Set("limit", "1")
	return r.selectOne(ctx, filters)
}

func (r *TenantRepo) GetByID(ctx context.Context, id string) (tenant.Tenant, error) {
	filters := url.Values{}
	filters.Set("id", "eq."+id)
	filters.Set("limit", "1")
	return r.selectOne(ctx, filters)
}

func (r *TenantRepo) selectOne(ctx context.Context, filters url.Values) (tenant.Tenant, error) {
	var rows []tenantRow
	if err := r.c.Select(ctx, "tenants", filters, &rows); err != nil {
		return tenant.Tenant{}, err
	}
	if len(rows) == 0 {
		return tenant.Tenant{}, tenant.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

type eventRow struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	TenantID      *string   `json:"tenant_id"`
	ToNumber      *string   `json:"to_number"`
	FromNumber    *string   `json:"from_number"`
	Status        *string   `json:"status"`
	ProviderError *string   `json:"provider_error"`
	Payload       string    `json:"payload"`
	ReceivedAt    time.Time `json:"received_at"`
}

// AuditRepo implements audit.Repository over PostgREST. Append-only.
type AuditRepo struct {
	c *Client
}

func NewAuditRepo(c *Client) *AuditRepo { return &AuditRepo{c: c} }

func (r *AuditRepo) Append(ctx context.Context, e audit.Event) error {
	return r.c.Insert(ctx, "webhook_events", eventRow{
		ID:            e.ID,
		Source:        e.Source,
		TenantID:      e.TenantID,
		ToNumber:      e.ToNumber,
		FromNumber:    e.FromNumber,
		Status:        e.Status,
		ProviderError: e.ProviderError,
		Payload:       e.Payload,
		ReceivedAt:    e.ReceivedAt,
	})
}

type callRow struct {
	CallID          string     `json:"call_id"`
	TenantID        string     `json:"tenant_id"`
	FromNumber      *string    `json:"from_number"`
	ToNumber        *string    `json:"to_number"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationSeconds *int       `json:"duration_seconds"`
	Status          string     `json:"status"`
	RecordingURL    *string    `json:"recording_url"`
	Transcript      *string    `json:"transcript"`
	Payload         string     `json:"payload"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (r callRow) toDomain() calllog.CallLog {
	return calllog.CallLog{
		CallID:          r.CallID,
		TenantID:        r.TenantID,
		FromNumber:      r.FromNumber,
		ToNumber:        r.ToNumber,
		StartedAt:       r.StartedAt,
		EndedAt:         r.EndedAt,
		DurationSeconds: r.DurationSeconds,
		Status:          r.Status,
		RecordingURL:    r.RecordingURL,
		Transcript:      r.Transcript,
		Payload:         r.Payload,
		CreatedAt:       r.CreatedAt,
	}
}

// callUpsertRow is the write shape. It deliberately has no created_at:
// merge-duplicates overwrites every posted column on conflict, and the
// first-sighting timestamp must survive retried deliveries. The column's
// database default fills it on first insert.
type callUpsertRow struct {
	CallID          string     `json:"call_id"`
	TenantID        string     `json:"tenant_id"`
	FromNumber      *string    `json:"from_number"`
	ToNumber        *string    `json:"to_number"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationSeconds *int       `json:"duration_seconds"`
	Status          string     `json:"status"`
	RecordingURL    *string    `json:"recording_url"`
	Transcript      *string    `json:"transcript"`
	Payload         string     `json:"payload"`
}

func fromDomain(c calllog.CallLog) callUpsertRow {
	return callUpsertRow{
		CallID:          c.CallID,
		TenantID:        c.TenantID,
		FromNumber:      c.FromNumber,
		ToNumber:        c.ToNumber,
		StartedAt:       c.StartedAt,
		EndedAt:         c.EndedAt,
		DurationSeconds: c.DurationSeconds,
		Status:          c.Status,
		RecordingURL:    c.RecordingURL,
		Transcript:      c.Transcript,
		Payload:         c.Payload,
	}
}

// CallLogRepo implements calllog.Repository over PostgREST.
type CallLogRepo struct {
	c *Client
}

func NewCallLogRepo(c *Client) *CallLogRepo { return &CallLogRepo{c: c} }

func (r *CallLogRepo) Upsert(ctx context.Context, c calllog.CallLog) error {
	return r.c.Upsert(ctx, "call_logs", "call_id", fromDomain(c))
}

func (r *CallLogRepo) GetByCallID(ctx context.Context, callID string) (calllog.CallLog, error) {
	filters := url.Values{}
	filters.Set("call_id", "eq."+callID)
	filters.Set("limit", "1")

	var rows []callRow
	if err := r.c.Select(ctx, "call_logs", filters, &rows); err != nil {
		return calllog.CallLog{}, err
	}
	if len(rows) == 0 {
		return calllog.CallLog{}, calllog.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

func (r *CallLogRepo) ListByTenant(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]calllog.CallLog, error) {
	filters := url.Values{}
	filters.Set("tenant_id", "eq."+tenantID)
	if !from.IsZero() {
		filters.Set("started_at", "gte."+from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		filters.Add("started_at", "lte."+to.UTC().Format(time.RFC3339))
	}
	filters.Set("order", "started_at.desc")
	if limit <= 0 {
		limit = 100
	}
	filters.Set("limit", strconv.Itoa(limit))

	var rows []callRow
	if err := r.c.Select(ctx, "call_logs", filters, &rows); err != nil {
		return nil, err
	}
	out := make([]calllog.CallLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
