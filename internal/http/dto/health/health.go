// Package health contains DTOs for the health endpoints.
package health

import "time"

// HealthStatus is the state of a single component.
type HealthStatus struct {
	Status  string `json:"status"`            // "ok" | "error" | "disabled"
	Message string `json:"message,omitempty"` // optional detail
}

// HealthResponse is the full readiness report.
type HealthResponse struct {
	Status     string                  `json:"status"` // "ready" | "degraded" | "unavailable"
	Components map[string]HealthStatus `json:"components"`
	Version    string                  `json:"version,omitempty"`
	Commit     string                  `json:"commit,omitempty"`
	Timestamp  time.Time               `json:"timestamp"`
}
