package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"receptionist-api/internal/auth"
	"receptionist-api/internal/calllog"
	"receptionist-api/internal/rbac"
	"receptionist-api/internal/reporting"
	"receptionist-api/internal/tenant"

	"github.com/gin-gonic/gin"
)

func intPtr(i int) *int { return &i }

func identity(userID, tenantID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := auth.WithIdentity(c.Request.Context(), userID, tenantID, role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func testRouter(t *testing.T) (*gin.Engine, *calllog.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tenants := tenant.NewService(tenant.NewMemoryRepo(tenant.Tenant{
		ID:            "t1",
		Name:          "Luigi's Pizzeria",
		InboundNumber: "+15558675309",
	}), nil)

	callRepo := calllog.NewMemoryRepo()
	calls := calllog.NewService(callRepo)

	h := Handlers{
		Tenants:   tenants,
		Calls:     calls,
		Reporting: reporting.NewService(reporting.NewCallLogRepo(callRepo)),
	}

	r := gin.New()
	g := r.Group("/v1", identity("u1", "t1", rbac.RoleOwner))
	g.GET("/tenant", append(RequireTenantAndAnyRole(rbac.RoleOwner, rbac.RoleStaff), h.GetTenant)...)
	g.GET("/calls", append(RequireTenantAndAnyRole(rbac.RoleOwner, rbac.RoleStaff), h.ListCalls)...)
	g.GET("/calls/summary", append(RequireTenantAndAnyRole(rbac.RoleOwner), h.CallsSummary)...)
	g.GET("/calls/:call_id", append(RequireTenantAndAnyRole(rbac.RoleOwner, rbac.RoleStaff), h.GetCall)...)
	return r, callRepo
}

func seedCalls(t *testing.T, repo *calllog.MemoryRepo) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := []calllog.CallLog{
		{CallID: "c1", TenantID: "t1", Status: calllog.StatusAnalyzed, StartedAt: base, DurationSeconds: intPtr(90)},
		{CallID: "c2", TenantID: "t1", Status: calllog.StatusEnded, StartedAt: base.Add(5 * time.Minute), DurationSeconds: intPtr(30)},
		{CallID: "c3", TenantID: "t2", Status: calllog.StatusEnded, StartedAt: base},
	}
	for _, row := range rows {
		if err := repo.Upsert(context.Background(), row); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestGetTenant(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/tenant", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got tenant.Tenant
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != "t1" || got.InboundNumber != "+15558675309" {
		t.Fatalf("unexpected tenant: %+v", got)
	}
}

func TestListCalls_TenantScoped(t *testing.T) {
	r, repo := testRouter(t)
	seedCalls(t, repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/calls", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got struct {
		Calls []calllog.CallLog `json:"calls"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Calls) != 2 {
		t.Fatalf("len = %d, want 2 (t2 rows must not leak)", len(got.Calls))
	}
	for _, c := range got.Calls {
		if c.TenantID != "t1" {
			t.Fatalf("leaked row for tenant %q", c.TenantID)
		}
	}
}

func TestListCalls_BadParams(t *testing.T) {
	r, _ := testRouter(t)

	for _, path := range []string{
		"/v1/calls?from=yesterday",
		"/v1/calls?limit=-1",
		"/v1/calls?limit=abc",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
}

func TestGetCall_OtherTenantLooksMissing(t *testing.T) {
	r, repo := testRouter(t)
	seedCalls(t, repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/calls/c3", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for another tenant's call", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/calls/c1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCallsSummary(t *testing.T) {
	r, repo := testRouter(t)
	seedCalls(t, repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/v1/calls/summary?from=2025-06-01T00:00:00Z&to=2025-06-02T00:00:00Z", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got reporting.CallsSummary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TotalCalls != 2 || got.TotalDurationSeconds != 120 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestCallsSummary_MissingRange(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/calls/summary", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 when range is missing", w.Code)
	}
}
