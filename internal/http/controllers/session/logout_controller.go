package session

import (
	"net/http"

	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/session"
	httperrors "github.com/dropDatabas3/orcidgate/internal/http/errors"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
)

// LogoutController handles POST /session/logout.
type LogoutController struct {
	service svc.Service
	cookies dto.CookieConfig
}

// NewLogoutController creates a new LogoutController.
func NewLogoutController(service svc.Service, cookies dto.CookieConfig) *LogoutController {
	return &LogoutController{service: service, cookies: cookies}
}

// Logout revokes the session and clears the cookie. Logging out
// without a session is fine.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	if token := cookieToken(r, c.cookies); token != "" {
		if err := c.service.Revoke(ctx, token); err != nil {
			log.Debug("logout revoke error", logger.Err(err))
		}
		http.SetCookie(w, svc.BuildDeletionCookie(c.cookies))
	}

	writeJSON(w, http.StatusOK, dto.LogoutResponse{LoggedOut: true})
	log.Debug("session logout completed")
}
