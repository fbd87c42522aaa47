package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/scoutiq/landscape-api/internal/api/shared"
)

// HealthHandler serves liveness and dependency health checks.
type HealthHandler struct {
	db           *sql.DB
	backend      string
	tasksEnabled bool
	started      time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db *sql.DB, backend string, tasksEnabled bool) *HealthHandler {
	return &HealthHandler{
		db:           db,
		backend:      backend,
		tasksEnabled: tasksEnabled,
		started:      time.Now().UTC(),
	}
}

// Health handles GET /health: a bare liveness probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// DetailedHealth handles GET /health/detailed: it pings the database and
// reports per-dependency status. A failing dependency degrades the overall
// status but still answers 200; orchestration reads the body.
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	dbStatus := "ok"
	if err := h.db.PingContext(ctx); err != nil {
		dbStatus = "unavailable"
		status = "degraded"
	}

	tasksStatus := "disabled"
	if h.tasksEnabled {
		tasksStatus = "enabled"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"services": map[string]any{
			"database": map[string]string{
				"status":  dbStatus,
				"backend": h.backend,
			},
			"tasks": map[string]string{
				"status": tasksStatus,
			},
		},
	})
}
