package login

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// StateAudience is the expected audience for state tokens.
const StateAudience = "orcid-state"

// StateClaims are the claims carried through the ORCID round-trip.
type StateClaims struct {
	Nonce string
}

// Errors for state operations.
var (
	ErrStateInvalid  = errors.New("invalid state token")
	ErrStateExpired  = errors.New("state token expired")
	ErrStateAudience = errors.New("state audience mismatch")
)

// StateSigner issues and validates the state parameter as an EdDSA JWT.
type StateSigner struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
	ttl  time.Duration
}

// NewStateSigner builds a signer from a base64 Ed25519 seed. An empty
// seed generates a volatile key, which is fine for a single replica:
// states signed before a restart simply stop verifying.
func NewStateSigner(seedB64 string, ttl time.Duration) (*StateSigner, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	if seedB64 == "" {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("state: generate key: %w", err)
		}
		return &StateSigner{priv: priv, pub: pub, ttl: ttl}, nil
	}

	seed, err := base64.StdEncoding.DecodeString(seedB64)
	if err != nil {
		return nil, fmt.Errorf("state: decode seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("state: seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &StateSigner{
		priv: priv,
		pub:  priv.Public().(ed25519.PublicKey),
		ttl:  ttl,
	}, nil
}

// SignState signs a state JWT carrying the nonce.
func (s *StateSigner) SignState(nonce string) (string, error) {
	now := time.Now().UTC()
	claims := jwtv5.MapClaims{
		"aud":   StateAudience,
		"exp":   now.Add(s.ttl).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"nonce": nonce,
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	return tk.SignedString(s.priv)
}

// ParseState parses and validates a state JWT.
func (s *StateSigner) ParseState(tokenString string) (*StateClaims, error) {
	tk, err := jwtv5.Parse(tokenString,
		func(*jwtv5.Token) (any, error) { return s.pub, nil },
		jwtv5.WithValidMethods([]string{"EdDSA"}),
	)
	if err != nil || !tk.Valid {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrStateExpired
		}
		return nil, ErrStateInvalid
	}

	mapClaims, ok := tk.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrStateInvalid
	}

	aud, _ := mapClaims["aud"].(string)
	if aud != StateAudience {
		return nil, ErrStateAudience
	}

	return &StateClaims{Nonce: getString(mapClaims, "nonce")}, nil
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
