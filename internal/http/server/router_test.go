package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/orcidgate/internal/cache"
	adminctrl "github.com/dropDatabas3/orcidgate/internal/http/controllers/admin"
	healthctrl "github.com/dropDatabas3/orcidgate/internal/http/controllers/health"
	healthsvc "github.com/dropDatabas3/orcidgate/internal/http/services/health"
	sessionsvc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
	memstore "github.com/dropDatabas3/orcidgate/internal/store/memory"
)

func testRouter(t *testing.T) chi.Router {
	t.Helper()

	ok := func(context.Context) error { return nil }
	st := memstore.New()
	c := cache.NewMemory("test", time.Minute)
	sessions := sessionsvc.NewService(c, time.Hour)

	return NewRouter(RouterDeps{
		Health: healthctrl.NewHealthController(healthsvc.NewHealthService(healthsvc.Deps{
			StoreCheck:      ok,
			CacheCheck:      ok,
			ORCIDConfigured: true,
		})),
		Admin: adminctrl.NewControllers(st, c, sessions),
	})
}

func TestRouter_Healthz(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_Readyz(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready"`)
}

func TestRouter_NotFoundIsJSON(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestRouter_AdminLockedWithoutToken(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/researchers", nil))

	// No token hash configured: the surface is mounted but disabled.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_SetsSecurityHeaders(t *testing.T) {
	r := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRoutePattern(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/sessions/12345", nil)
	assert.Equal(t, "unmatched", routePattern(req))

	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{"/admin/sessions/{id}"}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	assert.Equal(t, "/admin/sessions/{id}", routePattern(req))
}
