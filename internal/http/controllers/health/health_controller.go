// Package health contains the controllers for liveness and readiness.
package health

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/orcidgate/internal/http/errors"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/health"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
)

// HealthController handles the health check routes.
type HealthController struct {
	service svc.HealthService
}

// NewHealthController creates a new HealthController.
func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Healthz handles GET /healthz. Liveness only: the process answers.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Readyz handles GET /readyz with the full component report.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	response := c.service.Check(ctx)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if response.Version != "" {
		w.Header().Set("X-Service-Version", response.Version)
	}
	if response.Commit != "" {
		w.Header().Set("X-Service-Commit", response.Commit)
	}

	statusCode := http.StatusOK
	if response.Status == "unavailable" {
		statusCode = http.StatusServiceUnavailable
	}

	log.Debug("health check completed",
		logger.String("status", response.Status),
		logger.Int("components_count", len(response.Components)),
	)

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// Register mounts the health routes.
func (c *HealthController) Register(r chi.Router) {
	r.Get("/healthz", c.Healthz)
	r.Get("/readyz", c.Readyz)
}
