// Package handler provides HTTP handlers for all API endpoints.
// Handlers validate the path and body, call one store or runner method, and
// write JSON. Stores own their SQL; handlers never touch the pool directly.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/power2u/traineasy-web/internal/api/respond"
	"github.com/power2u/traineasy-web/internal/cache"
	"github.com/power2u/traineasy-web/internal/catalog"
	"github.com/power2u/traineasy-web/internal/db"
	"github.com/power2u/traineasy-web/internal/notifications"
	"github.com/power2u/traineasy-web/internal/profile"
	"github.com/power2u/traineasy-web/internal/relay"
	"github.com/power2u/traineasy-web/internal/tracking"
	"github.com/power2u/traineasy-web/internal/validate"
)

const maxBodyBytes = 64 << 10

// HealthChecker pings the database.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// JobRunner runs notification jobs. Satisfied by *notifications.Runner.
type JobRunner interface {
	Run(ctx context.Context, kinds ...notifications.Kind) (notifications.Result, error)
	Broadcast(ctx context.Context, title, body string) (notifications.Result, error)
}

// TemplateAdmin lists and stores notification templates. Satisfied by
// *notifications.PGStore.
type TemplateAdmin interface {
	ListTemplates(ctx context.Context) ([]notifications.TemplateRow, error)
	SaveTemplate(ctx context.Context, t notifications.Template, active bool) (notifications.TemplateRow, error)
}

// TemplateCache drops a cached template after an admin edit.
type TemplateCache interface {
	Invalidate(kind notifications.Kind)
}

// Deps are the collaborators the handlers call.
type Deps struct {
	DB            HealthChecker
	Cache         *cache.Cache
	Jobs          JobRunner
	Templates     TemplateAdmin
	TemplateCache TemplateCache
	Relay         *relay.Service
	Tracking      *tracking.Store
	Catalog       *catalog.Store
	Profile       *profile.Store
	Logger        *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	Deps
	now func() time.Time
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Handler{Deps: d, now: time.Now}
}

// writeErr maps store errors onto HTTP statuses. Validation problems are
// echoed to the caller; anything else is logged and hidden.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, validate.ErrInvalid):
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request", err.Error())
	case errors.Is(err, db.ErrNotFound):
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
	default:
		h.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := respond.DecodeJSON(w, r, maxBodyBytes, v); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_BODY", "Malformed JSON body", err.Error())
		return false
	}
	return true
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and docs location.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "TrainEasy API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil || h.DB.HealthCheck(r.Context()) != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.Cache.Stats(),
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
