package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"receptionist-api/internal/audit"
	"receptionist-api/internal/auth"
	"receptionist-api/internal/calllog"
	"receptionist-api/internal/httpapi"
	"receptionist-api/internal/rbac"
	"receptionist-api/internal/reporting"
	"receptionist-api/internal/tenant"
	"receptionist-api/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type appDeps struct {
	Auth     *auth.Manager
	Tenants  *tenant.Service
	Events   *audit.Service
	Calls    *calllog.Service
	CallRepo calllog.Repository
	Redis    *redis.Client
	Log      *slog.Logger

	HealthPing func(context.Context) error
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, deps appDeps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if deps.HealthPing != nil {
			if err := deps.HealthPing(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Provider webhooks (public). The provider does not sign deliveries;
	// the endpoint path is the only secret. POST only, everything else 405.
	wh := webhook.Handler{
		Tenants: deps.Tenants,
		Events:  deps.Events,
		Calls:   deps.Calls,
		Source:  "retell",
	}
	r.POST("/webhooks/retell/call", wh.HandleCallEvent)

	h := httpapi.Handlers{
		Auth:      deps.Auth,
		Tenants:   deps.Tenants,
		Calls:     deps.Calls,
		Reporting: reporting.NewService(reporting.NewCallLogRepo(deps.CallRepo)),
	}

	// AUTH routes (token issuance).
	// NOTE: This is a placeholder login route; real credential validation is not implemented.
	r.POST("/v1/auth/login", h.Login)

	// protected portal API
	v1 := r.Group("/v1")
	v1.Use(auth.RequireAccessToken(deps.Auth))
	v1.Use(httpapi.RateLimit(deps.Redis, 120, time.Minute, deps.Log))
	{
		v1.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			tid, _ := auth.TenantID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"user_id": uid, "tenant_id": tid, "role": role})
		})

		read := httpapi.RequireTenantAndAnyRole(rbac.RoleOwner, rbac.RoleStaff, rbac.RoleAnalyst)
		v1.GET("/tenant", append(read, h.GetTenant)...)
		v1.GET("/calls", append(read, h.ListCalls)...)
		v1.GET("/calls/:call_id", append(read, h.GetCall)...)

		// Summaries are business numbers; front-of-house staff don't need them.
		v1.GET("/calls/summary", append(httpapi.RequireTenantAndAnyRole(rbac.RoleOwner, rbac.RoleAnalyst), h.CallsSummary)...)
	}
}
