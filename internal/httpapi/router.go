// Package httpapi exposes the catalog, enrollment, audit and report
// operations as a JSON API.
//
// Callers identify themselves with the X-Actor-ID and X-Actor-Name headers.
// Authentication happens in front of this service.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/p-n-ai/pai-lms/internal/audit"
	"github.com/p-n-ai/pai-lms/internal/catalog"
	"github.com/p-n-ai/pai-lms/internal/enrollment"
)

// CheckFunc reports whether a dependency is usable.
type CheckFunc func(ctx context.Context) error

// Config wires the API to its services.
type Config struct {
	Catalog     *catalog.Service
	Enrollments *enrollment.Service
	AuditLog    audit.Store
	// Checks run on GET /readyz, keyed by dependency name.
	Checks map[string]CheckFunc
}

// Handler serves the API.
type Handler struct {
	catalog     *catalog.Service
	enrollments *enrollment.Service
	auditLog    audit.Store
	checks      map[string]CheckFunc
}

// New builds the API router.
func New(cfg Config) http.Handler {
	h := &Handler{
		catalog:     cfg.Catalog,
		enrollments: cfg.Enrollments,
		auditLog:    cfg.AuditLog,
		checks:      cfg.Checks,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealthz)
	r.Get("/readyz", h.handleReadyz)

	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.listCourses)
		r.Post("/", h.createCourse)
		r.Route("/{courseID}", func(r chi.Router) {
			r.Get("/", h.getCourse)
			r.Patch("/", h.updateCourse)
			r.Delete("/", h.deleteCourse)
			r.Post("/publish", h.publishCourse)
			r.Post("/modules", h.addModule)
			r.Put("/modules/{moduleID}", h.saveModule)
		})
	})

	r.Route("/enrollments", func(r chi.Router) {
		r.Get("/", h.listEnrollments)
		r.Post("/", h.enroll)
		r.Route("/{enrollmentID}", func(r chi.Router) {
			r.Get("/", h.getEnrollment)
			r.Post("/access", h.touchEnrollment)
			r.Post("/attempts", h.submitAttempt)
			r.Post("/review", h.reviewEnrollment)
		})
	})

	r.Get("/audit", h.listAudit)
	r.Get("/reports/gradebook.xlsx", h.gradebook)

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
