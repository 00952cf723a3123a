package session

import (
	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/session"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
)

// Controllers groups the session controllers.
type Controllers struct {
	Me     *MeController
	Logout *LogoutController
}

// NewControllers builds the session controllers.
func NewControllers(service svc.Service, cookies dto.CookieConfig) *Controllers {
	return &Controllers{
		Me:     NewMeController(service, cookies),
		Logout: NewLogoutController(service, cookies),
	}
}

// Register mounts the session routes.
func (c *Controllers) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Get("/session/me", c.Me.Me)
		r.Post("/session/logout", c.Logout.Logout)
	})
}
