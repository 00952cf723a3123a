package admin

import (
	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/orcidgate/internal/cache"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
	"github.com/dropDatabas3/orcidgate/internal/store"
)

// Controllers groups the admin controllers.
type Controllers struct {
	Researchers *ResearchersController
	Stats       *StatsController
	Sessions    *SessionsController
}

// NewControllers builds the admin controllers.
func NewControllers(s store.Store, c cache.Client, sessions svc.Service) *Controllers {
	return &Controllers{
		Researchers: NewResearchersController(s),
		Stats:       NewStatsController(s, c),
		Sessions:    NewSessionsController(sessions),
	}
}

// Register mounts the admin routes. The caller wraps the group with
// the admin auth middleware.
func (c *Controllers) Register(r chi.Router) {
	r.Get("/admin/researchers", c.Researchers.List)
	r.Get("/admin/researchers/{id}", c.Researchers.Get)
	r.Get("/admin/stats", c.Stats.Stats)
	r.Delete("/admin/sessions/{id}", c.Sessions.Revoke)
}
