// Package session keeps researcher sessions in the cache, keyed by a
// hash of the opaque token the browser holds.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/orcidgate/internal/http/services/login"
)

// ErrNotFound means the token or session id resolves to nothing, either
// because it never existed or because it expired.
var ErrNotFound = errors.New("session not found")

// Session is the server-side session record.
type Session struct {
	SessionID    string    `json:"session_id"`
	ResearcherID string    `json:"researcher_id"`
	ORCID        string    `json:"orcid"`
	Name         string    `json:"name"`
	AccessToken  string    `json:"access_token"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Service manages session lifecycle. It satisfies login.Sessions.
type Service interface {
	// Issue creates a session and returns the opaque token for the cookie.
	Issue(ctx context.Context, seed login.SessionSeed) (string, error)

	// Resolve looks up the session behind a token.
	Resolve(ctx context.Context, token string) (*Session, error)

	// Check reports whether the token resolves to a live session.
	Check(ctx context.Context, token string) bool

	// Revoke removes the session behind a token. Revoking an unknown
	// token is not an error.
	Revoke(ctx context.Context, token string) error

	// RevokeByID removes a session by its id, for the admin surface.
	RevokeByID(ctx context.Context, sessionID string) error
}
