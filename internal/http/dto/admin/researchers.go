// Package admin contains DTOs for the admin endpoints.
package admin

import "time"

// ResearcherResponse for GET responses
type ResearcherResponse struct {
	ID           string     `json:"id"`
	ORCID        string     `json:"orcid"`
	Name         string     `json:"name,omitempty"`
	SignInCount  int64      `json:"sign_in_count"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ListResearchersResponse for GET /admin/researchers
type ListResearchersResponse struct {
	Researchers []ResearcherResponse `json:"researchers"`
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
}

// CacheStats mirrors the cache backend counters.
type CacheStats struct {
	Driver string `json:"driver"`
	Keys   int64  `json:"keys"`
	Hits   int64  `json:"hits"`
	Misses int64  `json:"misses"`
}

// StatsResponse for GET /admin/stats
type StatsResponse struct {
	Researchers int64      `json:"researchers"`
	Cache       CacheStats `json:"cache"`
	Timestamp   time.Time  `json:"timestamp"`
}

// RevokeSessionResponse for DELETE /admin/sessions/{id}
type RevokeSessionResponse struct {
	Revoked   bool   `json:"revoked"`
	SessionID string `json:"session_id"`
}
