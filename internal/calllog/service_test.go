package calllog

import (
	"context"
	"testing"
	"time"
)

func TestRecord_SkipsWithoutCallID(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	wrote, err := svc.Record(context.Background(), CallLog{TenantID: "t1"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if wrote {
		t.Fatalf("expected skip without call id")
	}
	if repo.Len() != 0 {
		t.Fatalf("expected no rows")
	}
}

func TestRecord_SkipsWithoutTenant(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	wrote, err := svc.Record(context.Background(), CallLog{CallID: "abc123"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if wrote {
		t.Fatalf("expected skip without tenant id")
	}
}

func TestRecord_DefaultsStartAndStatus(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	wrote, err := svc.Record(context.Background(), CallLog{CallID: "abc123", TenantID: "t1"})
	if err != nil || !wrote {
		t.Fatalf("expected write, got wrote=%v err=%v", wrote, err)
	}

	got, err := repo.GetByCallID(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.StartedAt.IsZero() {
		t.Fatalf("expected started_at default")
	}
	if got.Status != StatusReceived {
		t.Fatalf("expected status %q, got %q", StatusReceived, got.Status)
	}
}

func TestRecord_SecondDeliveryOverwrites(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	now := time.Unix(1700000000, 0).UTC()

	dur := 42
	if _, err := svc.Record(context.Background(), CallLog{
		CallID:          "abc123",
		TenantID:        "t1",
		Status:          StatusEnded,
		StartedAt:       now,
		DurationSeconds: &dur,
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	transcript := "hello"
	if _, err := svc.Record(context.Background(), CallLog{
		CallID:     "abc123",
		TenantID:   "t1",
		Status:     StatusEnded,
		StartedAt:  now,
		Transcript: &transcript,
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if repo.Len() != 1 {
		t.Fatalf("expected exactly one row per call id, got %d", repo.Len())
	}
	got, _ := repo.GetByCallID(context.Background(), "abc123")
	if got.Transcript == nil || *got.Transcript != "hello" {
		t.Fatalf("expected transcript from second delivery")
	}
	// Overwrite, not deep merge: the earlier duration is gone.
	if got.DurationSeconds != nil {
		t.Fatalf("expected duration overwritten to nil, got %v", *got.DurationSeconds)
	}
}

func TestListByTenant_FiltersAndSorts(t *testing.T) {
	repo := NewMemoryRepo()
	now := time.Unix(1700000000, 0).UTC()

	_ = repo.Upsert(context.Background(), CallLog{CallID: "c1", TenantID: "t1", StartedAt: now.Add(-2 * time.Hour), Status: StatusEnded})
	_ = repo.Upsert(context.Background(), CallLog{CallID: "c2", TenantID: "t1", StartedAt: now, Status: StatusEnded})
	_ = repo.Upsert(context.Background(), CallLog{CallID: "c3", TenantID: "t2", StartedAt: now, Status: StatusEnded})

	out, err := repo.ListByTenant(context.Background(), "t1", now.Add(-3*time.Hour), now.Add(time.Hour), 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].CallID != "c2" {
		t.Fatalf("expected newest first, got %q", out[0].CallID)
	}
}
