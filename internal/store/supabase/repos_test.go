package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"receptionist-api/internal/audit"
	"receptionist-api/internal/calllog"
)

func testEvent() audit.Event {
	return audit.Event{
		ID:         "ev1",
		Source:     "retell",
		Payload:    `{"event":"call_started"}`,
		ReceivedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestCallLogRepo_UpsertNeverSendsCreatedAt(t *testing.T) {
	// merge-duplicates overwrites every posted column on a call_id conflict,
	// so a created_at in the body would reset the first-sighting timestamp
	// on every retried delivery.
	var posted map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &posted); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})

	repo := NewCallLogRepo(c)
	err := repo.Upsert(context.Background(), calllog.CallLog{
		CallID:    "abc123",
		TenantID:  "t1",
		Status:    calllog.StatusEnded,
		StartedAt: time.Unix(1700000000, 0).UTC(),
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := posted["created_at"]; ok {
		t.Fatalf("upsert body must not carry created_at, got %v", posted)
	}
	if posted["call_id"] != "abc123" {
		t.Fatalf("unexpected body: %v", posted)
	}
}

func TestCallLogRepo_ListByTenantFilters(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("tenant_id") != "eq.t1" {
			t.Fatalf("unexpected tenant filter %q", q.Get("tenant_id"))
		}
		if q.Get("order") != "started_at.desc" {
			t.Fatalf("expected newest-first order, got %q", q.Get("order"))
		}
		if len(q["started_at"]) != 2 {
			t.Fatalf("expected gte and lte bounds, got %v", q["started_at"])
		}
		w.Write([]byte(`[{"call_id":"abc123","tenant_id":"t1","status":"call_ended","started_at":"2023-11-14T22:13:20Z","payload":"{}","created_at":"2023-11-14T22:13:20Z"}]`))
	})

	repo := NewCallLogRepo(c)
	out, err := repo.ListByTenant(context.Background(), "t1", now.Add(-time.Hour), now.Add(time.Hour), 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 || out[0].CallID != "abc123" {
		t.Fatalf("unexpected rows: %+v", out)
	}
}
