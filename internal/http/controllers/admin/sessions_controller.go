package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/orcidgate/internal/audit"
	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/orcidgate/internal/http/errors"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
)

// SessionsController handles forced session revocation.
type SessionsController struct {
	sessions svc.Service
}

// NewSessionsController creates a new SessionsController.
func NewSessionsController(sessions svc.Service) *SessionsController {
	return &SessionsController{sessions: sessions}
}

// Revoke handles DELETE /admin/sessions/{id}.
func (c *SessionsController) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SessionsController.Revoke"))

	id := chi.URLParam(r, "id")
	if id == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("missing session id"))
		return
	}

	if err := c.sessions.RevokeByID(ctx, id); err != nil {
		if errors.Is(err, svc.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrSessionNotFound)
			return
		}
		log.Error("revoke session failed", logger.Err(err), logger.SessionID(id))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	log.Info("session revoked by operator", logger.SessionID(id))
	audit.Log(ctx, "admin_session_revoked", map[string]any{"session_id": id})
	writeJSON(w, http.StatusOK, dto.RevokeSessionResponse{Revoked: true, SessionID: id})
}
