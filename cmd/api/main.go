package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"receptionist-api/internal/audit"
	"receptionist-api/internal/auth"
	"receptionist-api/internal/calllog"
	"receptionist-api/internal/config"
	"receptionist-api/internal/store/supabase"
	"receptionist-api/internal/tenant"
	"receptionist-api/migrations"
	"receptionist-api/pkg/logger"
	"receptionist-api/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env, "receptionist-api")
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Persistence: tenants, webhook event log, call logs. The backend is an
	// env choice so the same binary runs against local Postgres and hosted
	// Supabase projects.
	var (
		tenantRepo  tenant.Repository
		auditRepo   audit.Repository
		callRepo    calllog.Repository
		healthCheck func(context.Context) error
	)
	switch cfg.Store.Backend {
	case config.StoreBackendSupabase:
		sb, err := supabase.NewClient(supabase.Config{
			BaseURL:    cfg.Supabase.URL,
			ServiceKey: cfg.Supabase.ServiceKey,
		})
		if err != nil {
			log.Error("supabase init failed", "err", err)
			os.Exit(1)
		}
		tenantRepo = supabase.NewTenantRepo(sb)
		auditRepo = supabase.NewAuditRepo(sb)
		callRepo = supabase.NewCallLogRepo(sb)
		healthCheck = func(context.Context) error { return nil }
	default:
		db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()

		if cfg.DB.RunMigrations {
			if err := migrations.Up(db); err != nil {
				log.Error("migrations failed", "err", err)
				os.Exit(1)
			}
			log.Info("migrations applied")
		}

		tenantRepo = tenant.NewPostgresRepo(db)
		auditRepo = audit.NewPostgresRepo(db)
		callRepo = calllog.NewPostgresRepo(db)
		healthCheck = func(ctx context.Context) error {
			return utils.HealthCheck(ctx, db, 2*time.Second)
		}
	}

	deps := appDeps{
		Auth:       authManager,
		Tenants:    tenant.NewService(tenantRepo, tenant.NewCache(rdb, 0)),
		Events:     audit.NewService(auditRepo),
		Calls:      calllog.NewService(callRepo),
		CallRepo:   callRepo,
		Redis:      rdb,
		Log:        log,
		HealthPing: healthCheck,
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	r.HandleMethodNotAllowed = true

	registerRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}
