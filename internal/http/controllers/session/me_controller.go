// Package session contains the controllers for session introspection
// and logout.
package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/session"
	httperrors "github.com/dropDatabas3/orcidgate/internal/http/errors"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
)

// MeController handles GET /session/me.
type MeController struct {
	service svc.Service
	cookies dto.CookieConfig
}

// NewMeController creates a new MeController.
func NewMeController(service svc.Service, cookies dto.CookieConfig) *MeController {
	return &MeController{service: service, cookies: cookies}
}

// Me returns the session behind the cookie.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("MeController.Me"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	token := cookieToken(r, c.cookies)
	if token == "" {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
		return
	}

	sess, err := c.service.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, svc.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrSessionExpired)
			return
		}
		log.Error("session resolve failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.MeResponse{
		SessionID:    sess.SessionID,
		ResearcherID: sess.ResearcherID,
		ORCID:        sess.ORCID,
		Name:         sess.Name,
		ExpiresAt:    sess.ExpiresAt,
	})
}

func cookieToken(r *http.Request, cookies dto.CookieConfig) string {
	name := cookies.Name
	if name == "" {
		name = "sid"
	}
	ck, err := r.Cookie(name)
	if err != nil || ck == nil {
		return ""
	}
	return strings.TrimSpace(ck.Value)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
