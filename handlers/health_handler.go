package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/hr-platform/utils"
	"go.uber.org/zap"
)

// HealthChecker is a dependency the readiness probe must reach
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	service string
	checks  map[string]HealthChecker
	logger  *zap.Logger
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler. checks may be empty for
// services without backing stores.
func NewHealthHandler(service string, checks map[string]HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		service: service,
		checks:  checks,
		logger:  logger,
		now:     time.Now,
	}
}

// HandleHealth handles GET /healthz
// Liveness only: 200 whenever the process can serve.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeOrLog(utils.WriteOK(w, HealthResponse{
		Status:    "healthy",
		Service:   h.service,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}), h.logger)
}

// HandleReadiness handles GET /readyz
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checks))
	allHealthy := true
	for name, checker := range h.checks {
		if err := checker.HealthCheck(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			checks[name] = "unhealthy"
			allHealthy = false
			continue
		}
		checks[name] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Service:   h.service,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	writeOrLog(utils.WriteJSON(w, httpStatus, utils.SuccessResponse{Data: response}), h.logger)
}
