package email

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
	"github.com/dropDatabas3/orcidgate/internal/store"
	"github.com/dropDatabas3/orcidgate/internal/util"
)

const componentNotifier = "SignInNotifier"

// SignInNotifier mails the operations inbox when a researcher is
// provisioned on their first sign-in. It satisfies login.Notifier and
// never surfaces delivery errors to the sign-in path; a lost notice is
// an ops inconvenience, a failed sign-in is not.
type SignInNotifier struct {
	sender  Sender
	to      string
	service string
}

// NewSignInNotifier builds a notifier that delivers through sender.
// service names the installation in the subject and body.
func NewSignInNotifier(sender Sender, to, service string) *SignInNotifier {
	if service == "" {
		service = "orcidgate"
	}
	return &SignInNotifier{sender: sender, to: to, service: service}
}

// ResearcherProvisioned renders and sends the first-sign-in notice.
// Safe to call from a goroutine.
func (n *SignInNotifier) ResearcherProvisioned(ctx context.Context, r *store.Researcher) {
	log := logger.From(ctx).With(
		logger.String("component", componentNotifier),
		logger.String("orcid", r.ORCID),
	)

	if n.sender == nil || n.to == "" {
		log.Debug("sign-in notice skipped, no sender configured")
		return
	}
	if ctx.Err() != nil {
		log.Debug("sign-in notice skipped, context done")
		return
	}

	html, text, err := renderSignIn(signInVars{
		Service:    n.service,
		Name:       r.Name,
		ORCID:      r.ORCID,
		ORCIDURL:   "https://orcid.org/" + r.ORCID,
		SignedInAt: r.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Error("sign-in notice render failed", logger.Err(err))
		return
	}

	subject := fmt.Sprintf("New researcher on %s: %s", n.service, r.ORCID)
	if err := n.sender.Send(n.to, subject, html, text); err != nil {
		log.Error("sign-in notice send failed", logger.Err(err))
		return
	}
	log.Info("sign-in notice sent", logger.String("to", util.MaskEmail(n.to)))
}
