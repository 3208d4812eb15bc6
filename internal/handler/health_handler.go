package handler

import (
	"net/http"
	"time"

	"ideahub-backend/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{container: container}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health. Probes the database and Redis so load
// balancers stop routing to an instance that lost a dependency.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := "healthy"
	code := http.StatusOK
	checks := make(map[string]string, 2)

	if err := h.container.DB.Health(ctx); err != nil {
		checks["database"] = "unhealthy"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if err := h.container.Redis.Health(ctx); err != nil {
		checks["redis"] = "unhealthy"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	} else {
		checks["redis"] = "ok"
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   "ideahub-backend",
		Checks:    checks,
	})
}
