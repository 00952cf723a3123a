package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/orcidgate/internal/cache"
	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/session"
	loginsvc "github.com/dropDatabas3/orcidgate/internal/http/services/login"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
)

func newFixture(t *testing.T) (svc.Service, *Controllers) {
	t.Helper()
	service := svc.NewService(cache.NewMemory("test", time.Minute), time.Hour)
	return service, NewControllers(service, dto.CookieConfig{Name: "sid"})
}

func issue(t *testing.T, service svc.Service) string {
	t.Helper()
	token, err := service.Issue(context.Background(), loginsvc.SessionSeed{
		ResearcherID: "res-1",
		ORCID:        "0000-0002-1825-0097",
		Name:         "Josiah Carberry",
	})
	require.NoError(t, err)
	return token
}

func TestMe(t *testing.T) {
	service, ctrl := newFixture(t)
	token := issue(t, service)

	req := httptest.NewRequest(http.MethodGet, "/session/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: token})
	rec := httptest.NewRecorder()
	ctrl.Me.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "res-1", body.ResearcherID)
	assert.Equal(t, "0000-0002-1825-0097", body.ORCID)
	assert.Equal(t, "Josiah Carberry", body.Name)
	assert.NotEmpty(t, body.SessionID)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestMe_NoCookie(t *testing.T) {
	_, ctrl := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/session/me", nil)
	rec := httptest.NewRecorder()
	ctrl.Me.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_StaleCookie(t *testing.T) {
	_, ctrl := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/session/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "never-issued"})
	rec := httptest.NewRecorder()
	ctrl.Me.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout(t *testing.T) {
	service, ctrl := newFixture(t)
	token := issue(t, service)

	req := httptest.NewRequest(http.MethodPost, "/session/logout", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: token})
	rec := httptest.NewRecorder()
	ctrl.Logout.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, service.Check(context.Background(), token), "session must be revoked")

	var deletion *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "sid" {
			deletion = ck
		}
	}
	require.NotNil(t, deletion)
	assert.Equal(t, -1, deletion.MaxAge)
}

func TestLogout_WithoutSession(t *testing.T) {
	_, ctrl := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/session/logout", nil)
	rec := httptest.NewRecorder()
	ctrl.Logout.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "no cookie to clear")
}
