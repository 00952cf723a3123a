package login

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_SignsStateIntoAuthURL(t *testing.T) {
	signer, err := NewStateSigner("", time.Minute)
	require.NoError(t, err)

	exchanger := &fakeExchanger{}
	svc := NewServices(Deps{ORCID: exchanger, Signer: signer}).Start

	res, err := svc.Start(context.Background())
	require.NoError(t, err)

	u, err := url.Parse(res.AuthorizeURL)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)

	claims, err := signer.ParseState(state)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.Nonce)
}

func TestStart_NoSignerMeansNoState(t *testing.T) {
	exchanger := &fakeExchanger{}
	svc := NewServices(Deps{ORCID: exchanger}).Start

	res, err := svc.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.AuthorizeURL, "state="),
		"auth URL should carry an empty state when no signer is configured")
}
