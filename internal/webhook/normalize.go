package webhook

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// CallEvent is the canonical record extracted from a provider payload.
// All fields except StartedAt and Status may legitimately be absent.
type CallEvent struct {
	CallID     string
	ToNumber   string
	FromNumber string

	StartedAt time.Time
	EndedAt   *time.Time

	DurationSeconds *int

	Status string

	RecordingURL  *string
	Transcript    *string
	ProviderError *string
}

// The provider has shipped at least three field-naming conventions for the
// same logical event. Each logical field gets an ordered list of candidate
// paths; the first present value wins. Paths descend nested objects on ".".
// Keep the order stable: it is the normalization contract.
var (
	toNumberPaths   = []string{"to_number", "to", "call.to_number", "called_number"}
	fromNumberPaths = []string{"from_number", "from", "call.from_number", "caller_number"}
	callIDPaths     = []string{"retell_call_id", "call_id", "id", "call.call_id"}
	startPaths      = []string{"start_timestamp", "call.start_timestamp"}
	endPaths        = []string{"end_timestamp", "call.end_timestamp"}
	durationPaths   = []string{"duration_seconds", "call.duration_seconds"}
	statusPaths     = []string{"event", "call.call_status", "status"}
	recordingPaths  = []string{"recording_url", "call.recording_url"}
	transcriptPaths = []string{"transcript", "call.transcript"}
	errorPaths      = []string{"error", "call.error"}
)

// StatusReceived is recorded when the payload carried no status at all:
// the event arrived but nothing about the call state was communicated.
const StatusReceived = "received"

var ErrInvalidPayload = errors.New("webhook: invalid payload")

// ParseCallEvent decodes a provider webhook body and extracts the canonical
// fields. The body is a JSON object, or a JSON-encoded string containing
// one; anything else is a hard error. Missing optional fields are not.
func ParseCallEvent(body []byte, now time.Time) (CallEvent, error) {
	payload, err := decodeObject(body)
	if err != nil {
		return CallEvent{}, err
	}

	ev := CallEvent{
		CallID:     firstString(payload, callIDPaths),
		ToNumber:   normalizePhone(firstString(payload, toNumberPaths)),
		FromNumber: normalizePhone(firstString(payload, fromNumberPaths)),
		Status:     firstString(payload, statusPaths),
	}
	if ev.Status == "" {
		ev.Status = StatusReceived
	}

	if t, ok := firstTime(payload, startPaths); ok {
		ev.StartedAt = t
	} else {
		// A call must always have some recorded start time.
		ev.StartedAt = now.UTC()
	}
	if t, ok := firstTime(payload, endPaths); ok {
		ev.EndedAt = &t
	}
	if n, ok := firstInt(payload, durationPaths); ok {
		ev.DurationSeconds = &n
	}
	if s := firstString(payload, recordingPaths); s != "" {
		ev.RecordingURL = &s
	}
	if s := firstString(payload, transcriptPaths); s != "" {
		ev.Transcript = &s
	}
	if s := firstString(payload, errorPaths); s != "" {
		ev.ProviderError = &s
	}
	return ev, nil
}

// decodeObject accepts `{...}` or `"{\"...\"}"` (a JSON string wrapping an
// object, which the provider sends from some delivery paths).
func decodeObject(body []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, ErrInvalidPayload
	}
	if s, ok := v.(string); ok {
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, ErrInvalidPayload
		}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrInvalidPayload
	}
	return obj, nil
}

func lookup(payload map[string]any, path string) (any, bool) {
	cur := payload
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := cur[part]
		if !ok || v == nil {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		cur, ok = v.(map[string]any)
		if !ok {
			return nil, false
		}
	}
	return nil, false
}

func firstString(payload map[string]any, paths []string) string {
	for _, p := range paths {
		if v, ok := lookup(payload, p); ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func firstInt(payload map[string]any, paths []string) (int, bool) {
	for _, p := range paths {
		v, ok := lookup(payload, p)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n), true
		case string:
			if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

// firstTime accepts RFC3339 strings and Unix timestamps. Numeric values
// above 1e11 are treated as milliseconds (the provider's convention),
// smaller ones as seconds.
func firstTime(payload map[string]any, paths []string) (time.Time, bool) {
	for _, p := range paths {
		v, ok := lookup(payload, p)
		if !ok {
			continue
		}
		switch tv := v.(type) {
		case float64:
			return unixFlexible(int64(tv)), true
		case string:
			s := strings.TrimSpace(tv)
			if s == "" {
				continue
			}
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t.UTC(), true
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return unixFlexible(n), true
			}
		}
	}
	return time.Time{}, false
}

func unixFlexible(n int64) time.Time {
	if n > 1e11 {
		return time.Unix(0, n*int64(time.Millisecond)).UTC()
	}
	return time.Unix(n, 0).UTC()
}

func normalizePhone(s string) string {
	// The provider sometimes sends "anonymous" or empty; keep as-is.
	return strings.TrimSpace(s)
}
