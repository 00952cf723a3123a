package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/orcidgate/internal/cache"
	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/admin"
	loginsvc "github.com/dropDatabas3/orcidgate/internal/http/services/login"
	sessionsvc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
	"github.com/dropDatabas3/orcidgate/internal/store"
	memstore "github.com/dropDatabas3/orcidgate/internal/store/memory"
)

type fixture struct {
	store    *memstore.Store
	sessions sessionsvc.Service
	router   chi.Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{store: memstore.New()}
	f.sessions = sessionsvc.NewService(cache.NewMemory("test", time.Minute), time.Hour)

	f.router = chi.NewRouter()
	NewControllers(f.store, cache.NewMemory("test", time.Minute), f.sessions).Register(f.router)
	return f
}

func (f *fixture) seedResearchers(t *testing.T, n int) []store.Researcher {
	t.Helper()
	out := make([]store.Researcher, 0, n)
	for i := 0; i < n; i++ {
		r, _, err := f.store.FindOrCreate(context.Background(), store.UpsertResearcherInput{
			ORCID: fmt.Sprintf("0000-0002-0000-%04d", i),
			Name:  fmt.Sprintf("Researcher %d", i),
		})
		require.NoError(t, err)
		out = append(out, *r)
	}
	return out
}

func TestListResearchers(t *testing.T) {
	f := newFixture(t)
	f.seedResearchers(t, 3)

	req := httptest.NewRequest(http.MethodGet, "/admin/researchers", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.ListResearchersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Researchers, 3)
	assert.EqualValues(t, 3, body.TotalCount)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, defaultPageSize, body.PageSize)
}

func TestListResearchers_Pagination(t *testing.T) {
	f := newFixture(t)
	f.seedResearchers(t, 5)

	req := httptest.NewRequest(http.MethodGet, "/admin/researchers?page=2&page_size=2", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.ListResearchersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Researchers, 2)
	assert.EqualValues(t, 5, body.TotalCount)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 2, body.PageSize)
}

func TestGetResearcher(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedResearchers(t, 1)

	req := httptest.NewRequest(http.MethodGet, "/admin/researchers/"+seeded[0].ID, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.ResearcherResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, seeded[0].ID, body.ID)
	assert.Equal(t, seeded[0].ORCID, body.ORCID)
	assert.EqualValues(t, 1, body.SignInCount)
}

func TestGetResearcher_ByORCID(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedResearchers(t, 2)

	req := httptest.NewRequest(http.MethodGet, "/admin/researchers/"+seeded[1].ORCID, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.ResearcherResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, seeded[1].ID, body.ID)
	assert.Equal(t, seeded[1].ORCID, body.ORCID)
}

func TestGetResearcher_NotFound(t *testing.T) {
	f := newFixture(t)

	for _, id := range []string{"nope", "0000-0002-9999-9999"} {
		req := httptest.NewRequest(http.MethodGet, "/admin/researchers/"+id, nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.seedResearchers(t, 2)

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body.Researchers)
	assert.Equal(t, "memory", body.Cache.Driver)
}

func TestRevokeSession(t *testing.T) {
	f := newFixture(t)

	token, err := f.sessions.Issue(context.Background(), loginsvc.SessionSeed{ResearcherID: "res-1"})
	require.NoError(t, err)
	sess, err := f.sessions.Resolve(context.Background(), token)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/admin/sessions/"+sess.SessionID, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.sessions.Check(context.Background(), token))
}

func TestRevokeSession_NotFound(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodDelete, "/admin/sessions/unknown", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
