package webhook

import (
	"testing"
	"time"
)

var parseNow = time.Unix(1700000000, 0).UTC()

func TestParseCallEvent_FieldAliasEquivalence(t *testing.T) {
	// The same destination number under each naming convention must
	// normalize identically.
	bodies := []string{
		`{"to_number":"+611111"}`,
		`{"to":"+611111"}`,
		`{"call":{"to_number":"+611111"}}`,
		`{"called_number":"+611111"}`,
	}
	for _, body := range bodies {
		ev, err := ParseCallEvent([]byte(body), parseNow)
		if err != nil {
			t.Fatalf("body %s: unexpected err: %v", body, err)
		}
		if ev.ToNumber != "+611111" {
			t.Fatalf("body %s: expected +611111, got %q", body, ev.ToNumber)
		}
	}
}

func TestParseCallEvent_SearchOrderFirstMatchWins(t *testing.T) {
	ev, err := ParseCallEvent([]byte(`{"to_number":"+611111","to":"+619999","call":{"to_number":"+618888"}}`), parseNow)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.ToNumber != "+611111" {
		t.Fatalf("expected top-level to_number to win, got %q", ev.ToNumber)
	}
}

func TestParseCallEvent_CallIDFallbackChain(t *testing.T) {
	ev, err := ParseCallEvent([]byte(`{"call":{"call_id":"nested"}}`), parseNow)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.CallID != "nested" {
		t.Fatalf("expected nested call id, got %q", ev.CallID)
	}

	ev, err = ParseCallEvent([]byte(`{"retell_call_id":"primary","id":"generic"}`), parseNow)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.CallID != "primary" {
		t.Fatalf("expected retell_call_id to win, got %q", ev.CallID)
	}
}

func TestParseCallEvent_StartTimeDefaultsToNow(t *testing.T) {
	ev, err := ParseCallEvent([]byte(`{"event":"call_started"}`), parseNow)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ev.StartedAt.Equal(parseNow) {
		t.Fatalf("expected start defaulted to now, got %v", ev.StartedAt)
	}
}

func TestParseCallEvent_TimestampFormats(t *testing.T) {
	// Unix milliseconds.
	ev, err := ParseCallEvent([]byte(`{"start_timestamp":1700000000000}`), parseNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ev.StartedAt.Equal(parseNow) {
		t.Fatalf("expected ms timestamp parsed, got %v", ev.StartedAt)
	}

	// RFC3339 string.
	ev, err = ParseCallEvent([]byte(`{"start_timestamp":"2023-11-14T22:13:20Z"}`), parseNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ev.StartedAt.Equal(parseNow) {
		t.Fatalf("expected rfc3339 timestamp parsed, got %v", ev.StartedAt)
	}

	// Unix seconds.
	ev, err = ParseCallEvent([]byte(`{"start_timestamp":1700000000}`), parseNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !ev.StartedAt.Equal(parseNow) {
		t.Fatalf("expected seconds timestamp parsed, got %v", ev.StartedAt)
	}
}

func TestParseCallEvent_StatusFallback(t *testing.T) {
	ev, err := ParseCallEvent([]byte(`{"retell_call_id":"abc"}`), parseNow)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.Status != StatusReceived {
		t.Fatalf("expected %q fallback, got %q", StatusReceived, ev.Status)
	}

	ev, err = ParseCallEvent([]byte(`{"event":"call_ended","call":{"call_status":"ended"}}`), parseNow)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.Status != "call_ended" {
		t.Fatalf("expected event field to win, got %q", ev.Status)
	}
}

func TestParseCallEvent_StringEncodedBody(t *testing.T) {
	ev, err := ParseCallEvent([]byte(`"{\"retell_call_id\":\"abc\",\"to_number\":\"+611111\"}"`), parseNow)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.CallID != "abc" || ev.ToNumber != "+611111" {
		t.Fatalf("expected fields from string-wrapped body, got %+v", ev)
	}
}

func TestParseCallEvent_InvalidBodies(t *testing.T) {
	for _, body := range []string{`not json`, `[1,2,3]`, `42`, `"still not an object"`} {
		if _, err := ParseCallEvent([]byte(body), parseNow); err == nil {
			t.Fatalf("expected error for body %s", body)
		}
	}
}

func TestParseCallEvent_FullPayload(t *testing.T) {
	body := `{"event":"call_ended","retell_call_id":"abc123","to_number":"+611111","from_number":"+612222","duration_seconds":42,"recording_url":"https://r.example/a.wav","transcript":"hi","end_timestamp":1700000060000}`
	ev, err := ParseCallEvent([]byte(body), parseNow)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if ev.CallID != "abc123" || ev.Status != "call_ended" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.DurationSeconds == nil || *ev.DurationSeconds != 42 {
		t.Fatalf("expected duration 42")
	}
	if ev.EndedAt == nil || !ev.EndedAt.Equal(parseNow.Add(time.Minute)) {
		t.Fatalf("expected end timestamp parsed")
	}
	if ev.RecordingURL == nil || ev.Transcript == nil {
		t.Fatalf("expected recording url and transcript")
	}
}
