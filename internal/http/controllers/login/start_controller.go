// Package login contains the controllers for the ORCID sign-in flow.
package login

import (
	"net/http"

	httperrors "github.com/dropDatabas3/orcidgate/internal/http/errors"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/login"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
)

// StartController handles GET /auth/orcid/start.
type StartController struct {
	service svc.StartService
}

// NewStartController creates a new StartController.
func NewStartController(service svc.StartService) *StartController {
	return &StartController{service: service}
}

// Start sends the researcher to the ORCID authorization page.
func (c *StartController) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("StartController.Start"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	result, err := c.service.Start(ctx)
	if err != nil {
		log.Error("start failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithDetail("could not start sign-in"))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	http.Redirect(w, r, result.AuthorizeURL, http.StatusFound)

	log.Debug("redirecting to ORCID")
}
