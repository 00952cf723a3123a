package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/orcidgate/internal/http/services/login"
)

func okCheck(context.Context) error   { return nil }
func downCheck(context.Context) error { return errors.New("connection refused") }

func TestCheck_AllHealthy(t *testing.T) {
	signer, err := login.NewStateSigner("", time.Minute)
	require.NoError(t, err)

	svc := NewHealthService(Deps{
		StoreCheck:      okCheck,
		CacheCheck:      okCheck,
		Signer:          signer,
		SMTPConfigured:  true,
		ORCIDConfigured: true,
	})

	res := svc.Check(context.Background())
	assert.Equal(t, "ready", res.Status)
	assert.Equal(t, "ok", res.Components["store"].Status)
	assert.Equal(t, "ok", res.Components["cache"].Status)
	assert.Equal(t, "ok", res.Components["state"].Status)
	assert.Equal(t, "ok", res.Components["smtp"].Status)
	assert.Equal(t, "ok", res.Components["orcid"].Status)
}

func TestCheck_StoreDown(t *testing.T) {
	svc := NewHealthService(Deps{
		StoreCheck:      downCheck,
		CacheCheck:      okCheck,
		ORCIDConfigured: true,
	})

	res := svc.Check(context.Background())
	assert.Equal(t, "unavailable", res.Status)
	assert.Equal(t, "error", res.Components["store"].Status)
	assert.Contains(t, res.Components["store"].Message, "connection refused")
}

func TestCheck_CacheDown(t *testing.T) {
	svc := NewHealthService(Deps{
		StoreCheck:      okCheck,
		CacheCheck:      downCheck,
		ORCIDConfigured: true,
	})

	res := svc.Check(context.Background())
	assert.Equal(t, "unavailable", res.Status)
}

func TestCheck_NoSignerIsDisabledNotDegraded(t *testing.T) {
	svc := NewHealthService(Deps{
		StoreCheck:      okCheck,
		CacheCheck:      okCheck,
		ORCIDConfigured: true,
	})

	res := svc.Check(context.Background())
	assert.Equal(t, "ready", res.Status)
	assert.Equal(t, "disabled", res.Components["state"].Status)
}

func TestCheck_NoSMTPIsDisabledNotDegraded(t *testing.T) {
	svc := NewHealthService(Deps{
		StoreCheck:      okCheck,
		CacheCheck:      okCheck,
		ORCIDConfigured: true,
	})

	res := svc.Check(context.Background())
	assert.Equal(t, "ready", res.Status)
	assert.Equal(t, "disabled", res.Components["smtp"].Status)
}

func TestCheck_MissingORCIDCredentialsIsCritical(t *testing.T) {
	svc := NewHealthService(Deps{
		StoreCheck: okCheck,
		CacheCheck: okCheck,
	})

	res := svc.Check(context.Background())
	assert.Equal(t, "unavailable", res.Status)
	assert.Equal(t, "error", res.Components["orcid"].Status)
	assert.Contains(t, res.Components["orcid"].Message, "credentials missing")
}

func TestCheck_MissingProbesAreCritical(t *testing.T) {
	svc := NewHealthService(Deps{ORCIDConfigured: true})

	res := svc.Check(context.Background())
	assert.Equal(t, "unavailable", res.Status)
	assert.Equal(t, "error", res.Components["store"].Status)
	assert.Equal(t, "error", res.Components["cache"].Status)
}
