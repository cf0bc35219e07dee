package webhook

import (
	"io"
	"net/http"
	"time"

	"receptionist-api/internal/audit"
	"receptionist-api/internal/calllog"
	"receptionist-api/internal/tenant"
	"receptionist-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler receives provider call-event webhooks.
//
// The provider enforces an aggressive response-time budget and retries on
// slow or non-2xx responses, which would re-deliver the same event. The
// handler therefore does all downstream writes best-effort and always
// acknowledges: a retried delivery is absorbed by the call-log upsert key,
// and the audit trail keeps one row per delivery either way.
//
// Only three things fail the request, all before any side effect:
// wrong method, missing store wiring, and an unparseable body.
type Handler struct {
	Tenants *tenant.Service
	Events  *audit.Service
	Calls   *calllog.Service

	// Source tags audit rows with the upstream system, e.g. "retell".
	Source string

	Now func() time.Time
}

func (h Handler) HandleCallEvent(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Now == nil {
		h.Now = time.Now
	}
	if h.Tenants == nil || h.Events == nil || h.Calls == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "store not configured"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	ev, err := ParseCallEvent(body, h.Now())
	if err != nil {
		log.Warn("webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	// Tenant resolution is best-effort: an unknown number still gets audited.
	var tenantID *string
	resolved, ok, err := h.Tenants.Resolve(c.Request.Context(), ev.ToNumber)
	if err != nil {
		log.Warn("tenant resolution failed", "to", ev.ToNumber, "err", err)
	} else if ok {
		tenantID = &resolved.ID
	}

	// Always one audit row per delivery, even when routing failed.
	auditErr := h.Events.Append(c.Request.Context(), audit.Event{
		Source:        h.Source,
		TenantID:      tenantID,
		ToNumber:      strPtr(ev.ToNumber),
		FromNumber:    strPtr(ev.FromNumber),
		Status:        strPtr(ev.Status),
		ProviderError: ev.ProviderError,
		Payload:       string(body),
		ReceivedAt:    h.Now().UTC(),
	})
	if auditErr != nil {
		log.Error("audit append failed", "call_id", ev.CallID, "err", auditErr)
	}

	if tenantID != nil {
		wrote, err := h.Calls.Record(c.Request.Context(), calllog.CallLog{
			CallID:          ev.CallID,
			TenantID:        *tenantID,
			FromNumber:      strPtr(ev.FromNumber),
			ToNumber:        strPtr(ev.ToNumber),
			StartedAt:       ev.StartedAt,
			EndedAt:         ev.EndedAt,
			DurationSeconds: ev.DurationSeconds,
			Status:          ev.Status,
			RecordingURL:    ev.RecordingURL,
			Transcript:      ev.Transcript,
			Payload:         string(body),
		})
		if err != nil {
			log.Error("call log upsert failed", "call_id", ev.CallID, "err", err)
		} else if !wrote {
			log.Debug("call log skipped", "call_id", ev.CallID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
