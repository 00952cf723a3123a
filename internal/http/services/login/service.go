// Package login contains the ORCID sign-in services: the start
// redirect, the callback dispatcher and the provisioning that follows a
// successful token exchange.
package login

import (
	"context"
	"errors"
	"net/url"

	"github.com/dropDatabas3/orcidgate/internal/oauth/orcid"
	"github.com/dropDatabas3/orcidgate/internal/store"
)

// StartService begins the sign-in flow.
type StartService interface {
	// Start returns the ORCID authorization URL to send the researcher to.
	Start(ctx context.Context) (*StartResult, error)
}

// StartResult is the outcome of starting a sign-in.
type StartResult struct {
	AuthorizeURL string
}

// CallbackService lands the researcher coming back from ORCID.
type CallbackService interface {
	Callback(ctx context.Context, req CallbackRequest) *CallbackResult
}

// CallbackRequest carries everything the callback landing depends on.
type CallbackRequest struct {
	Query        url.Values
	SessionToken string // from the session cookie, empty when absent
}

// CallbackResult is what the controller renders.
type CallbackResult struct {
	Outcome Outcome

	// RedirectPath is where an already-authenticated researcher goes.
	RedirectPath string

	// SessionToken is set once the exchange succeeded. The controller
	// turns it into the session cookie.
	SessionToken string
}

// Exchanger is the ORCID OAuth client surface the login flow uses.
type Exchanger interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*orcid.TokenResponse, error)
}

// SessionSeed is what a fresh session is built from.
type SessionSeed struct {
	ResearcherID string
	ORCID        string
	Name         string
	AccessToken  string
}

// Sessions is the session backend surface the login flow uses.
type Sessions interface {
	Issue(ctx context.Context, seed SessionSeed) (string, error)
	Check(ctx context.Context, token string) bool
}

// Notifier is told about first sign-ins. Implementations must be safe
// to call from a goroutine.
type Notifier interface {
	ResearcherProvisioned(ctx context.Context, r *store.Researcher)
}

// Exchange failure sentinels. Their text is what the researcher reads
// on the error page.
var (
	ErrStateRejected      = errors.New("Sign-in request could not be verified")
	ErrProvisioningFailed = errors.New("Could not complete sign-in")
	ErrSessionIssueFailed = errors.New("Could not start your session")
)

// Deps contains the dependencies for the login services.
type Deps struct {
	ORCID    Exchanger
	Store    store.Store
	Sessions Sessions
	Signer   *StateSigner // optional, volatile key when nil seed
	Notifier Notifier     // optional

	// RequireState rejects exchanges whose state is missing or invalid.
	RequireState bool

	// AppRoot is where signed-in researchers land.
	AppRoot string
}

// Services groups the login domain services.
type Services struct {
	Start    StartService
	Callback CallbackService
}

// NewServices builds the login services.
func NewServices(d Deps) Services {
	return Services{
		Start: &startService{
			orcid:  d.ORCID,
			signer: d.Signer,
		},
		Callback: &callbackService{
			orcid:        d.ORCID,
			store:        d.Store,
			sessions:     d.Sessions,
			signer:       d.Signer,
			notifier:     d.Notifier,
			requireState: d.RequireState,
			appRoot:      d.AppRoot,
		},
	}
}
