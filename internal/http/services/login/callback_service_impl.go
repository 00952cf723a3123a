package login

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/orcidgate/internal/metrics"
	"github.com/dropDatabas3/orcidgate/internal/oauth/orcid"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
	"github.com/dropDatabas3/orcidgate/internal/store"
)

// callbackService implements CallbackService.
type callbackService struct {
	orcid        Exchanger
	store        store.Store
	sessions     Sessions
	signer       *StateSigner
	notifier     Notifier
	requireState bool
	appRoot      string

	// provisionGroup collapses concurrent first sign-ins of the same
	// ORCID iD into one FindOrCreate.
	provisionGroup singleflight.Group
}

// Callback evaluates one landing and waits for the exchange to settle.
func (s *callbackService) Callback(ctx context.Context, req CallbackRequest) *CallbackResult {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("login.callback"))

	params := ParseCallbackParams(req.Query)
	if params.ErrorCode != "" {
		// The description is log-only. The researcher sees the code.
		log.Warn("provider returned error",
			logger.String("error", params.ErrorCode),
			logger.String("description", params.ErrorDescription),
		)
	}

	collab := &authCollaborator{svc: s, sessionToken: req.SessionToken, state: params.State}
	nav := &recordingNavigator{}
	d := NewDispatcher(collab, nav, s.appRoot)

	out := d.Evaluate(ctx, params)
	if out.Status == StatusPending {
		select {
		case <-d.Done():
			out = d.Outcome()
		case <-ctx.Done():
			// The researcher went away mid-exchange. The dispatcher
			// suppresses the late result, nothing to render.
			metrics.CallbackOutcomes.WithLabelValues("abandoned").Inc()
			return &CallbackResult{Outcome: out}
		}
	}

	metrics.CallbackOutcomes.WithLabelValues(out.Status.String()).Inc()

	res := &CallbackResult{Outcome: out}
	switch out.Status {
	case StatusAlreadyAuthenticated:
		res.RedirectPath = nav.Path()
		log.Debug("already authenticated, redirecting", logger.Path(res.RedirectPath))
	case StatusSucceeded:
		res.SessionToken = collab.issuedToken
	case StatusFailed:
		log.Warn("sign-in failed", logger.String("reason", out.Message))
	}
	return res
}

// authCollaborator binds one landing's session cookie and state to the
// dispatcher's collaborator interface.
type authCollaborator struct {
	svc          *callbackService
	sessionToken string
	state        string

	// issuedToken is set by a successful exchange.
	issuedToken string
}

func (a *authCollaborator) IsAuthenticated(ctx context.Context) bool {
	if a.sessionToken == "" {
		return false
	}
	return a.svc.sessions.Check(ctx, a.sessionToken)
}

func (a *authCollaborator) ExchangeCode(ctx context.Context, code string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("login.exchange"))

	if a.svc.requireState {
		if a.svc.signer == nil || a.state == "" {
			log.Warn("state missing with require_state on")
			return ErrStateRejected
		}
		if _, err := a.svc.signer.ParseState(a.state); err != nil {
			log.Warn("state rejected", logger.Err(err))
			return ErrStateRejected
		}
	}

	start := time.Now()
	tr, err := a.svc.orcid.ExchangeCode(ctx, code)
	metrics.ExchangeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error("token exchange failed", logger.Err(err))
		return err
	}

	r, isNew, err := a.svc.provision(ctx, tr)
	if err != nil {
		log.Error("provisioning failed", logger.Err(err), logger.ORCID(tr.ORCID))
		return ErrProvisioningFailed
	}
	if isNew {
		metrics.ResearchersProvisioned.Inc()
		if a.svc.notifier != nil {
			go a.svc.notifier.ResearcherProvisioned(context.WithoutCancel(ctx), r)
		}
	}

	token, err := a.svc.sessions.Issue(ctx, SessionSeed{
		ResearcherID: r.ID,
		ORCID:        r.ORCID,
		Name:         r.Name,
		AccessToken:  tr.AccessToken,
	})
	if err != nil {
		log.Error("session issue failed", logger.Err(err), logger.ResearcherID(r.ID))
		return ErrSessionIssueFailed
	}
	metrics.SessionsIssued.Inc()
	a.issuedToken = token

	log.Info("researcher signed in",
		logger.ORCID(r.ORCID),
		logger.ResearcherID(r.ID),
		logger.Bool("provisioned", isNew),
	)
	return nil
}

func (s *callbackService) provision(ctx context.Context, tr *orcid.TokenResponse) (*store.Researcher, bool, error) {
	type result struct {
		r     *store.Researcher
		isNew bool
	}
	v, err, _ := s.provisionGroup.Do(tr.ORCID, func() (any, error) {
		r, isNew, err := s.store.FindOrCreate(ctx, store.UpsertResearcherInput{
			ORCID: tr.ORCID,
			Name:  tr.Name,
		})
		if err != nil {
			return nil, err
		}
		return result{r: r, isNew: isNew}, nil
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(result)
	return res.r, res.isNew, nil
}

// recordingNavigator captures the replace target for the HTTP layer to
// turn into a redirect.
type recordingNavigator struct {
	mu   sync.Mutex
	path string
}

func (n *recordingNavigator) ReplaceCurrentLocation(path string) {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()
}

func (n *recordingNavigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}
