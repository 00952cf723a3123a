package admin

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/orcidgate/internal/cache"
	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/orcidgate/internal/http/errors"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
	"github.com/dropDatabas3/orcidgate/internal/store"
)

// StatsController handles GET /admin/stats.
type StatsController struct {
	store store.Store
	cache cache.Client
}

// NewStatsController creates a new StatsController.
func NewStatsController(s store.Store, c cache.Client) *StatsController {
	return &StatsController{store: s, cache: c}
}

// Stats reports registry and cache counters.
func (c *StatsController) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("StatsController.Stats"))

	total, err := c.store.Count(ctx)
	if err != nil {
		log.Error("count researchers failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	resp := dto.StatsResponse{
		Researchers: total,
		Timestamp:   time.Now().UTC(),
	}
	if stats, err := c.cache.Stats(ctx); err != nil {
		log.Warn("cache stats failed", logger.Err(err))
	} else {
		resp.Cache = dto.CacheStats{
			Driver: stats.Driver,
			Keys:   stats.Keys,
			Hits:   stats.Hits,
			Misses: stats.Misses,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
