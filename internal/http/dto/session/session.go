// Package session contains DTOs for the session endpoints.
package session

import "time"

// CookieConfig controls the session cookie the gateway sets.
type CookieConfig struct {
	Name     string
	TTL      time.Duration
	Domain   string
	SameSite string // "Strict" | "Lax" | "None"
	Secure   bool
}

// MeResponse for GET /session/me
type MeResponse struct {
	SessionID    string    `json:"session_id"`
	ResearcherID string    `json:"researcher_id"`
	ORCID        string    `json:"orcid"`
	Name         string    `json:"name,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LogoutResponse for POST /session/logout
type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}
