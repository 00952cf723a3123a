package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/orcidgate/internal/cache"
	"github.com/dropDatabas3/orcidgate/internal/http/services/login"
	tokens "github.com/dropDatabas3/orcidgate/internal/security/token"
)

const tokenBytes = 32

// cacheService implements Service on a cache.Client. The browser token
// is never stored; only its digest addresses the record. A second key
// maps the session id back to the digest so the admin surface can
// revoke without knowing the token.
type cacheService struct {
	cache cache.Client
	ttl   time.Duration
}

// NewService builds a cache-backed session service.
func NewService(c cache.Client, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &cacheService{cache: c, ttl: ttl}
}

func tokenKey(digest string) string { return "sess:" + digest }
func idKey(sessionID string) string { return "sessid:" + sessionID }

func (s *cacheService) Issue(ctx context.Context, seed login.SessionSeed) (string, error) {
	token, err := tokens.GenerateOpaqueToken(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("session: generate token: %w", err)
	}

	now := time.Now().UTC()
	sess := Session{
		SessionID:    uuid.NewString(),
		ResearcherID: seed.ResearcherID,
		ORCID:        seed.ORCID,
		Name:         seed.Name,
		AccessToken:  seed.AccessToken,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("session: marshal: %w", err)
	}

	digest := tokens.SHA256Base64URL(token)
	if err := s.cache.Set(ctx, tokenKey(digest), string(payload), s.ttl); err != nil {
		return "", fmt.Errorf("session: store: %w", err)
	}
	if err := s.cache.Set(ctx, idKey(sess.SessionID), digest, s.ttl); err != nil {
		// No index, no session. An unrevokable session is worse than a
		// failed sign-in.
		_ = s.cache.Delete(ctx, tokenKey(digest))
		return "", fmt.Errorf("session: store index: %w", err)
	}
	return token, nil
}

func (s *cacheService) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	raw, err := s.cache.Get(ctx, tokenKey(tokens.SHA256Base64URL(token)))
	if err != nil {
		if cache.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: load: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	// The backend may expire lazily. Enforce the deadline here too.
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		_ = s.Revoke(ctx, token)
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *cacheService) Check(ctx context.Context, token string) bool {
	_, err := s.Resolve(ctx, token)
	return err == nil
}

func (s *cacheService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	key := tokenKey(tokens.SHA256Base64URL(token))

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var sess Session
		if json.Unmarshal([]byte(raw), &sess) == nil && sess.SessionID != "" {
			_ = s.cache.Delete(ctx, idKey(sess.SessionID))
		}
	case !cache.IsNotFound(err):
		return fmt.Errorf("session: load for revoke: %w", err)
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("session: revoke: %w", err)
	}
	return nil
}

func (s *cacheService) RevokeByID(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrNotFound
	}
	digest, err := s.cache.Get(ctx, idKey(sessionID))
	if err != nil {
		if cache.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("session: load index: %w", err)
	}
	if err := s.cache.Delete(ctx, tokenKey(digest)); err != nil {
		return fmt.Errorf("session: revoke: %w", err)
	}
	_ = s.cache.Delete(ctx, idKey(sessionID))
	return nil
}
