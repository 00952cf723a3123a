package login

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
)

// startService implements StartService.
type startService struct {
	orcid  Exchanger
	signer *StateSigner
}

// Start issues a signed state and builds the authorization URL.
func (s *startService) Start(ctx context.Context) (*StartResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("login.start"))

	state := ""
	if s.signer != nil {
		signed, err := s.signer.SignState(uuid.NewString())
		if err != nil {
			log.Error("failed to sign state", logger.Err(err))
			return nil, err
		}
		state = signed
	}

	return &StartResult{AuthorizeURL: s.orcid.AuthURL(state)}, nil
}
