package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"receptionist-api/internal/calllog"
	"receptionist-api/internal/tenant"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, ServiceKey: "service-role"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return c, srv
}

func TestNewClient_RequiresConfig(t *testing.T) {
	if _, err := NewClient(Config{ServiceKey: "k"}); err == nil {
		t.Fatalf("expected error without base url")
	}
	if _, err := NewClient(Config{BaseURL: "https://x.supabase.co"}); err == nil {
		t.Fatalf("expected error without service key")
	}
}

func TestClient_SendsServiceRoleHeaders(t *testing.T) {
	var gotAPIKey, gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	var rows []tenantRow
	if err := c.Select(context.Background(), "tenants", nil, &rows); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotAPIKey != "service-role" {
		t.Fatalf("expected apikey header, got %q", gotAPIKey)
	}
	if gotAuth != "Bearer service-role" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
}

func TestTenantRepo_ExactMatchLookup(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/tenants" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("inbound_number") != "eq.+611111" {
			t.Fatalf("unexpected filter %q", q.Get("inbound_number"))
		}
		if q.Get("limit") != "1" {
			t.Fatalf("expected limit 1")
		}
		w.Write([]byte(`[{"id":"t1","name":"Luigi's","inbound_number":"+611111","created_at":"2023-11-14T22:13:20Z","updated_at":"2023-11-14T22:13:20Z"}]`))
	})

	repo := NewTenantRepo(c)
	got, err := repo.GetByInboundNumber(context.Background(), "+611111")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID != "t1" || got.InboundNumber != "+611111" {
		t.Fatalf("unexpected tenant: %+v", got)
	}
}

func TestTenantRepo_EmptyResultIsNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	repo := NewTenantRepo(c)
	_, err := repo.GetByInboundNumber(context.Background(), "+619999")
	if err != tenant.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCallLogRepo_UpsertUsesMergeDuplicates(t *testing.T) {
	var gotPrefer, gotOnConflict, gotMethod string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPrefer = r.Header.Get("Prefer")
		gotOnConflict = r.URL.Query().Get("on_conflict")
		w.WriteHeader(http.StatusCreated)
	})

	repo := NewCallLogRepo(c)
	err := repo.Upsert(context.Background(), calllog.CallLog{
		CallID:    "abc123",
		TenantID:  "t1",
		Status:    calllog.StatusEnded,
		StartedAt: time.Unix(1700000000, 0).UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %q", gotMethod)
	}
	if gotOnConflict != "call_id" {
		t.Fatalf("expected on_conflict=call_id, got %q", gotOnConflict)
	}
	if gotPrefer != "resolution=merge-duplicates,return=minimal" {
		t.Fatalf("unexpected Prefer header %q", gotPrefer)
	}
}

func TestClient_SurfacesErrorStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusUnauthorized)
	})

	repo := NewAuditRepo(c)
	err := repo.Append(context.Background(), testEvent())
	if err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestAuditRepo_InsertReturnMinimal(t *testing.T) {
	var gotPrefer string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/webhook_events" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		gotPrefer = r.Header.Get("Prefer")
		w.WriteHeader(http.StatusCreated)
	})

	repo := NewAuditRepo(c)
	if err := repo.Append(context.Background(), testEvent()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotPrefer != "return=minimal" {
		t.Fatalf("unexpected Prefer header %q", gotPrefer)
	}
}
