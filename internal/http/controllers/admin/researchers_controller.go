// Package admin contains the operator-facing controllers. The router
// mounts them behind bearer token auth.
package admin

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/admin"
	httperrors "github.com/dropDatabas3/orcidgate/internal/http/errors"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
	"github.com/dropDatabas3/orcidgate/internal/store"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ResearchersController handles the researcher registry routes.
type ResearchersController struct {
	store store.Store
}

// NewResearchersController creates a new ResearchersController.
func NewResearchersController(s store.Store) *ResearchersController {
	return &ResearchersController{store: s}
}

// List handles GET /admin/researchers.
func (c *ResearchersController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ResearchersController.List"))

	page, pageSize := pagination(r)

	researchers, err := c.store.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Error("list researchers failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	total, err := c.store.Count(ctx)
	if err != nil {
		log.Error("count researchers failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	resp := dto.ListResearchersResponse{
		Researchers: make([]dto.ResearcherResponse, 0, len(researchers)),
		TotalCount:  total,
		Page:        page,
		PageSize:    pageSize,
	}
	for i := range researchers {
		resp.Researchers = append(resp.Researchers, toResearcherResponse(&researchers[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// orcidPattern matches an ORCID iD, e.g. 0000-0002-1825-0097.
var orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// Get handles GET /admin/researchers/{id}. Accepts either the record ID
// or an ORCID iD; operators usually have the latter.
func (c *ResearchersController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ResearchersController.Get"))

	id := chi.URLParam(r, "id")
	if id == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("missing id"))
		return
	}

	var (
		researcher *store.Researcher
		err        error
	)
	if orcidPattern.MatchString(id) {
		researcher, err = c.store.GetByORCID(ctx, id)
	} else {
		researcher, err = c.store.GetByID(ctx, id)
	}
	if err != nil {
		if store.IsNotFound(err) {
			httperrors.WriteError(w, httperrors.ErrResearcherNotFound)
			return
		}
		log.Error("get researcher failed", logger.Err(err), logger.String("id", id))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toResearcherResponse(researcher))
}

func toResearcherResponse(r *store.Researcher) dto.ResearcherResponse {
	return dto.ResearcherResponse{
		ID:           r.ID,
		ORCID:        r.ORCID,
		Name:         r.Name,
		SignInCount:  r.SignInCount,
		LastSignInAt: r.LastSignInAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func pagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && v > 0 {
		pageSize = v
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
