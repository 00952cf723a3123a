package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/orcidgate/internal/cache"
	"github.com/dropDatabas3/orcidgate/internal/http/services/login"
)

func newTestService(t *testing.T, ttl time.Duration) Service {
	t.Helper()
	return NewService(cache.NewMemory("test", time.Minute), ttl)
}

func carberrySeed() login.SessionSeed {
	return login.SessionSeed{
		ResearcherID: "res-1",
		ORCID:        "0000-0002-1825-0097",
		Name:         "Josiah Carberry",
		AccessToken:  "at-1",
	}
}

func TestIssueAndResolve(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	token, err := svc.Issue(ctx, carberrySeed())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.SessionID)
	assert.Equal(t, "res-1", sess.ResearcherID)
	assert.Equal(t, "0000-0002-1825-0097", sess.ORCID)
	assert.Equal(t, "Josiah Carberry", sess.Name)
	assert.Equal(t, "at-1", sess.AccessToken)
	assert.True(t, sess.ExpiresAt.After(sess.CreatedAt))

	assert.True(t, svc.Check(ctx, token))
}

func TestResolve_UnknownToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Resolve(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, svc.Check(context.Background(), "never-issued"))
}

func TestResolve_EmptyToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_ExpiredSession(t *testing.T) {
	// TTL short enough to expire by deadline even before the cache
	// janitor runs.
	svc := newTestService(t, 10*time.Millisecond)
	ctx := context.Background()

	token, err := svc.Issue(ctx, carberrySeed())
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevoke(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	token, err := svc.Issue(ctx, carberrySeed())
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, token))
	assert.False(t, svc.Check(ctx, token))

	// Revoking again is a no-op.
	assert.NoError(t, svc.Revoke(ctx, token))
}

func TestRevokeByID(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	token, err := svc.Issue(ctx, carberrySeed())
	require.NoError(t, err)

	sess, err := svc.Resolve(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeByID(ctx, sess.SessionID))
	assert.False(t, svc.Check(ctx, token))

	assert.ErrorIs(t, svc.RevokeByID(ctx, sess.SessionID), ErrNotFound)
}

func TestRevokeByID_Unknown(t *testing.T) {
	svc := newTestService(t, time.Hour)

	assert.ErrorIs(t, svc.RevokeByID(context.Background(), "nope"), ErrNotFound)
}

func TestIssue_TokensAreUnique(t *testing.T) {
	svc := newTestService(t, time.Hour)
	ctx := context.Background()

	a, err := svc.Issue(ctx, carberrySeed())
	require.NoError(t, err)
	b, err := svc.Issue(ctx, carberrySeed())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	// Both sessions live independently.
	sa, err := svc.Resolve(ctx, a)
	require.NoError(t, err)
	sb, err := svc.Resolve(ctx, b)
	require.NoError(t, err)
	assert.NotEqual(t, sa.SessionID, sb.SessionID)
}
