package login

import (
	"net/http"
	"strings"

	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/session"
	httperrors "github.com/dropDatabas3/orcidgate/internal/http/errors"
	svc "github.com/dropDatabas3/orcidgate/internal/http/services/login"
	sessionsvc "github.com/dropDatabas3/orcidgate/internal/http/services/session"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
)

// CallbackController handles GET /auth/orcid/callback.
type CallbackController struct {
	service svc.CallbackService
	cookies dto.CookieConfig
	appName string
}

// NewCallbackController creates a new CallbackController.
func NewCallbackController(service svc.CallbackService, cookies dto.CookieConfig, appName string) *CallbackController {
	if appName == "" {
		appName = "orcidgate"
	}
	return &CallbackController{service: service, cookies: cookies, appName: appName}
}

// StartPath is where the failure page sends the researcher to retry.
const StartPath = "/auth/orcid/start"

// CallbackPath is the route ORCID redirects back to. The registered
// redirect URL must end with this path.
const CallbackPath = "/auth/orcid/callback"

// Callback lands the researcher coming back from ORCID.
//
// A successful exchange sets the session cookie and renders a holding
// page that re-enters this URL via location.replace. The second pass
// sees the live session and 302s home, so the spent code never stays
// in history.
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CallbackController.Callback"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	token := ""
	if ck, err := r.Cookie(c.cookieName()); err == nil && ck != nil {
		token = strings.TrimSpace(ck.Value)
	}

	result := c.service.Callback(ctx, svc.CallbackRequest{
		Query:        r.URL.Query(),
		SessionToken: token,
	})

	switch result.Outcome.Status {
	case svc.StatusAlreadyAuthenticated:
		// 302 replaces the callback URL in history.
		http.Redirect(w, r, result.RedirectPath, http.StatusFound)
		log.Debug("redirecting home", logger.Path(result.RedirectPath))

	case svc.StatusSucceeded:
		http.SetCookie(w, sessionsvc.BuildSessionCookie(result.SessionToken, c.cookies))
		renderLoading(w, c.appName, r.URL.RequestURI())
		log.Debug("session cookie set, holding page rendered")

	case svc.StatusFailed:
		renderFailure(w, c.appName, result.Outcome.Message, StartPath)
		log.Debug("failure page rendered")

	default:
		// Pending here means the researcher disconnected mid-exchange.
		// Nobody is reading the response.
		log.Debug("landing abandoned")
	}
}

func (c *CallbackController) cookieName() string {
	if c.cookies.Name == "" {
		return "sid"
	}
	return c.cookies.Name
}
