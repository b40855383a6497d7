package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/p-n-ai/pai-lms/internal/audit"
	"github.com/p-n-ai/pai-lms/internal/catalog"
	"github.com/p-n-ai/pai-lms/internal/curriculum"
	"github.com/p-n-ai/pai-lms/internal/enrollment"
	"github.com/p-n-ai/pai-lms/internal/httpapi"
	"github.com/p-n-ai/pai-lms/internal/platform/cache"
	"github.com/p-n-ai/pai-lms/internal/platform/config"
	"github.com/p-n-ai/pai-lms/internal/platform/database"
	"github.com/p-n-ai/pai-lms/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(os.Stdout, cfg.Log))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      a.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "storage", cfg.Storage, "cache", cfg.Cache.Enabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// app holds the wired services and the resources to release on exit.
type app struct {
	handler http.Handler
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp connects the configured backends, seeds the catalog and builds
// the HTTP handler.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		a.Close()
		return nil, err
	}

	auditMode, err := audit.ParseMode(cfg.Audit.Mode)
	if err != nil {
		return fail(err)
	}
	zapLog, err := logging.NewZap(cfg.Log)
	if err != nil {
		return fail(err)
	}
	a.closers = append(a.closers, func() { _ = zapLog.Sync() })

	var (
		courseStore catalog.Store    = catalog.NewMemoryStore()
		enrollStore enrollment.Store = enrollment.NewMemoryStore()
		auditStore  audit.Store      = audit.NewMemoryStore()
		checks                       = map[string]httpapi.CheckFunc{}
	)

	if cfg.UsesPostgres() {
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return fail(err)
		}
		a.closers = append(a.closers, db.Close)
		if cfg.Database.Migrate {
			if err := db.Migrate(ctx); err != nil {
				return fail(err)
			}
		}

		pgCourses, err := catalog.NewPostgresStore(db.Pool)
		if err != nil {
			return fail(err)
		}
		pgEnrollments, err := enrollment.NewPostgresStore(db.Pool)
		if err != nil {
			return fail(err)
		}
		pgAudit, err := audit.NewPostgresStore(db.Pool)
		if err != nil {
			return fail(err)
		}
		courseStore, enrollStore, auditStore = pgCourses, pgEnrollments, pgAudit
		checks["database"] = db.HealthCheck
	}

	if cfg.Cache.Enabled {
		c, err := cache.New(ctx, cfg.Cache)
		if err != nil {
			return fail(err)
		}
		a.closers = append(a.closers, func() { _ = c.Close() })
		courseStore = catalog.NewCachedStore(courseStore, c.Client, c.TTL)
		checks["cache"] = c.HealthCheck
	}

	recorder := audit.NewLogger(auditStore, zapLog, auditMode)
	courses := catalog.NewService(catalog.ServiceConfig{Store: courseStore, Audit: recorder})
	enrollments := enrollment.NewService(enrollment.ServiceConfig{Store: enrollStore, Audit: recorder})

	if err := seedCatalog(ctx, courses, cfg.CurriculumPath); err != nil {
		return fail(err)
	}

	zapLog.Info("audit trail ready", zap.String("mode", string(auditMode)))

	a.handler = httpapi.New(httpapi.Config{
		Catalog:     courses,
		Enrollments: enrollments,
		AuditLog:    auditStore,
		Checks:      checks,
	})
	return a, nil
}

func seedCatalog(ctx context.Context, courses *catalog.Service, path string) error {
	if path == "" {
		return nil
	}
	loader, err := curriculum.NewLoader(path)
	if err != nil {
		return err
	}
	if _, err := courses.Seed(ctx, loader.AllCourses()); err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	return nil
}
