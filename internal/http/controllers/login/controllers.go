package login

import (
	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/session"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/login"
)

// Controllers groups the login controllers.
type Controllers struct {
	Start    *StartController
	Callback *CallbackController
}

// NewControllers builds the login controllers.
func NewControllers(services svc.Services, cookies dto.CookieConfig, appName string) *Controllers {
	return &Controllers{
		Start:    NewStartController(services.Start),
		Callback: NewCallbackController(services.Callback, cookies, appName),
	}
}

// Register mounts the login routes.
func (c *Controllers) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Get(StartPath, c.Start.Start)
		r.Get(CallbackPath, c.Callback.Callback)
	})
}
