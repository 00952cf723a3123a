// Package server assembles the router, global middlewares and the HTTP
// listener.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminctrl "github.com/dropDatabas3/orcidgate/internal/http/controllers/admin"
	healthctrl "github.com/dropDatabas3/orcidgate/internal/http/controllers/health"
	loginctrl "github.com/dropDatabas3/orcidgate/internal/http/controllers/login"
	sessionctrl "github.com/dropDatabas3/orcidgate/internal/http/controllers/session"
	httperrors "github.com/dropDatabas3/orcidgate/internal/http/errors"
	mw "github.com/dropDatabas3/orcidgate/internal/http/middlewares"
)

// RouterDeps contains everything the router mounts.
type RouterDeps struct {
	Login   *loginctrl.Controllers
	Session *sessionctrl.Controllers
	Health  *healthctrl.HealthController
	Admin   *adminctrl.Controllers

	// Metrics is the /metrics handler from RegisterMetrics. Nil skips
	// the route.
	Metrics http.Handler

	// RateLimit guards the sign-in routes. Nil disables limiting.
	RateLimit *mw.RateLimitConfig

	// AdminTokenHash enables the admin surface. Empty keeps the routes
	// mounted but always 401.
	AdminTokenHash string
}

// NewRouter builds the route tree.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithRecover(),
		WithMetrics,
		mw.WithSecurityHeaders(),
	)

	// Probes and metrics stay outside the rate limit.
	if deps.Health != nil {
		deps.Health.Register(r)
	}
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// Sign-in flow.
	if deps.Login != nil {
		r.Group(func(r chi.Router) {
			r.Use(mw.WithNoStore())
			if deps.RateLimit != nil {
				r.Use(mw.WithRateLimit(*deps.RateLimit))
			}
			deps.Login.Register(r)
		})
	}

	// Session introspection and logout.
	if deps.Session != nil {
		r.Group(func(r chi.Router) {
			r.Use(mw.WithNoStore())
			deps.Session.Register(r)
		})
	}

	// Operator surface.
	if deps.Admin != nil {
		r.Group(func(r chi.Router) {
			r.Use(mw.WithNoStore(), mw.WithAdminAuth(deps.AdminTokenHash))
			deps.Admin.Register(r)
		})
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	return r
}
