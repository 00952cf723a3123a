package login

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/session"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/login"
)

type fakeCallbackService struct {
	result *svc.CallbackResult
	gotReq svc.CallbackRequest
}

func (f *fakeCallbackService) Callback(_ context.Context, req svc.CallbackRequest) *svc.CallbackResult {
	f.gotReq = req
	return f.result
}

type fakeStartService struct {
	result *svc.StartResult
	err    error
}

func (f *fakeStartService) Start(context.Context) (*svc.StartResult, error) {
	return f.result, f.err
}

func newCallbackController(result *svc.CallbackResult) (*CallbackController, *fakeCallbackService) {
	fake := &fakeCallbackService{result: result}
	ctrl := NewCallbackController(fake, dto.CookieConfig{Name: "sid"}, "orcidgate")
	return ctrl, fake
}

func TestStart_RedirectsToORCID(t *testing.T) {
	ctrl := NewStartController(&fakeStartService{
		result: &svc.StartResult{AuthorizeURL: "https://orcid.org/oauth/authorize?client_id=x"},
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/orcid/start", nil)
	rec := httptest.NewRecorder()
	ctrl.Start(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://orcid.org/oauth/authorize?client_id=x", rec.Header().Get("Location"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestStart_ServiceError(t *testing.T) {
	ctrl := NewStartController(&fakeStartService{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/auth/orcid/start", nil)
	rec := httptest.NewRecorder()
	ctrl.Start(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCallback_MethodGuard(t *testing.T) {
	ctrl, _ := newCallbackController(&svc.CallbackResult{})

	req := httptest.NewRequest(http.MethodPost, "/auth/orcid/callback", nil)
	rec := httptest.NewRecorder()
	ctrl.Callback(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestCallback_AlreadyAuthenticatedRedirects(t *testing.T) {
	ctrl, fake := newCallbackController(&svc.CallbackResult{
		Outcome:      svc.Outcome{Status: svc.StatusAlreadyAuthenticated},
		RedirectPath: "/app",
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/orcid/callback?code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "tok-123"})
	rec := httptest.NewRecorder()
	ctrl.Callback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/app", rec.Header().Get("Location"))
	assert.Equal(t, "tok-123", fake.gotReq.SessionToken, "cookie token must reach the service")
	assert.Equal(t, "abc", fake.gotReq.Query.Get("code"))
}

func TestCallback_SuccessSetsCookieAndHoldsPage(t *testing.T) {
	ctrl, _ := newCallbackController(&svc.CallbackResult{
		Outcome:      svc.Outcome{Status: svc.StatusSucceeded},
		SessionToken: "fresh-token",
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/orcid/callback?code=abc&state=s", nil)
	rec := httptest.NewRecorder()
	ctrl.Callback(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	res := rec.Result()
	var sid *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == "sid" {
			sid = ck
		}
	}
	require.NotNil(t, sid, "session cookie must be set")
	assert.Equal(t, "fresh-token", sid.Value)
	assert.True(t, sid.HttpOnly)

	body := rec.Body.String()
	assert.Contains(t, body, "Signing you in")
	// The holding page re-enters the callback URL so the second pass
	// can observe the fresh session.
	assert.Contains(t, body, "/auth/orcid/callback?code=abc")
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "nonce-")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestCallback_FailureRendersMessage(t *testing.T) {
	ctrl, _ := newCallbackController(&svc.CallbackResult{
		Outcome: svc.Outcome{
			Status:  svc.StatusFailed,
			Message: "ORCID authentication failed: access_denied",
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/orcid/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()
	ctrl.Callback(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ORCID authentication failed: access_denied")
	assert.Contains(t, body, StartPath, "failure page offers a retry")
}

func TestCallback_FailureEscapesMessage(t *testing.T) {
	ctrl, _ := newCallbackController(&svc.CallbackResult{
		Outcome: svc.Outcome{
			Status:  svc.StatusFailed,
			Message: `ORCID authentication failed: <script>alert(1)</script>`,
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/orcid/callback", nil)
	rec := httptest.NewRecorder()
	ctrl.Callback(rec, req)

	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}
