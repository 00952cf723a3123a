// Package health contains the readiness check service.
package health

import (
	"context"
	"fmt"
	"os"
	"time"

	dto "github.com/dropDatabas3/orcidgate/internal/http/dto/health"
	"github.com/dropDatabas3/orcidgate/internal/http/services/login"
	"github.com/dropDatabas3/orcidgate/internal/observability/logger"
)

// HealthService reports whether the gateway can sign researchers in.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contains the injectable probes for the health service.
type Deps struct {
	StoreCheck func(ctx context.Context) error
	CacheCheck func(ctx context.Context) error

	// Signer runs a sign/verify round-trip as the state self-check.
	Signer *login.StateSigner

	// StateRequired marks the state check critical instead of degraded.
	StateRequired bool

	// SMTPConfigured marks whether sign-in notices are wired.
	SMTPConfigured bool

	// ORCIDConfigured marks whether ORCID client credentials are present.
	ORCIDConfigured bool
}

type healthService struct {
	deps Deps
}

// NewHealthService builds the readiness service.
func NewHealthService(deps Deps) HealthService {
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  time.Now().UTC(),
	}
	if v := os.Getenv("SERVICE_VERSION"); v != "" {
		response.Version = v
	}
	if git := os.Getenv("SERVICE_COMMIT"); git != "" {
		response.Commit = git
	}

	hasErrors := false
	hasCriticalErrors := false

	// 1) Researcher store (critical, sign-in provisions through it)
	if s.deps.StoreCheck != nil {
		if err := s.deps.StoreCheck(ctx); err != nil {
			response.Components["store"] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("unavailable: %v", err),
			}
			hasCriticalErrors = true
			log.Error("store unavailable", logger.Err(err))
		} else {
			response.Components["store"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["store"] = dto.HealthStatus{
			Status:  "error",
			Message: "store not initialized",
		}
		hasCriticalErrors = true
	}

	// 2) Session cache (critical, no cache means no sessions)
	if s.deps.CacheCheck != nil {
		if err := s.deps.CacheCheck(ctx); err != nil {
			response.Components["cache"] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("unavailable: %v", err),
			}
			hasCriticalErrors = true
			log.Error("cache unavailable", logger.Err(err))
		} else {
			response.Components["cache"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["cache"] = dto.HealthStatus{
			Status:  "error",
			Message: "cache not initialized",
		}
		hasCriticalErrors = true
	}

	// 3) State signer (critical only when state is enforced)
	if s.deps.Signer != nil {
		if err := s.checkSigner(); err != nil {
			response.Components["state"] = dto.HealthStatus{
				Status:  "error",
				Message: err.Error(),
			}
			if s.deps.StateRequired {
				hasCriticalErrors = true
			} else {
				hasErrors = true
			}
			log.Error("state self-check failed", logger.Err(err))
		} else {
			response.Components["state"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["state"] = dto.HealthStatus{
			Status:  "disabled",
			Message: "state signing off",
		}
	}

	// 4) SMTP (informational, presence only, never dialed here)
	if s.deps.SMTPConfigured {
		response.Components["smtp"] = dto.HealthStatus{Status: "ok", Message: "configured"}
	} else {
		response.Components["smtp"] = dto.HealthStatus{
			Status:  "disabled",
			Message: "sign-in notices off",
		}
	}

	// 5) ORCID credentials (critical, sign-in starts at ORCID)
	if s.deps.ORCIDConfigured {
		response.Components["orcid"] = dto.HealthStatus{Status: "ok"}
	} else {
		response.Components["orcid"] = dto.HealthStatus{
			Status:  "error",
			Message: "client credentials missing",
		}
		hasCriticalErrors = true
		log.Error("orcid client credentials missing")
	}

	switch {
	case hasCriticalErrors:
		response.Status = "unavailable"
	case hasErrors:
		response.Status = "degraded"
	default:
		response.Status = "ready"
	}

	return response
}

// checkSigner signs and verifies a throwaway state token.
func (s *healthService) checkSigner() error {
	signed, err := s.deps.Signer.SignState("selfcheck")
	if err != nil {
		return fmt.Errorf("sign failed: %w", err)
	}
	if _, err := s.deps.Signer.ParseState(signed); err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	return nil
}
