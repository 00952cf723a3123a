// Package store persists researcher records.
//
// Backends:
//   - memory (in-process, for development and tests)
//   - postgres (pgx, for production)
package store

import (
	"context"
	"time"
)

// Researcher is an account provisioned from a successful ORCID sign-in.
type Researcher struct {
	ID           string     `json:"id"`
	ORCID        string     `json:"orcid"`
	Name         string     `json:"name"`
	SignInCount  int64      `json:"sign_in_count"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UpsertResearcherInput carries the profile fields learned from the
// token exchange.
type UpsertResearcherInput struct {
	ORCID string
	Name  string
}

// Store defines researcher persistence.
type Store interface {
	// FindOrCreate looks a researcher up by ORCID iD, creating the
	// record on first sign-in. Either way the sign-in counters are
	// advanced. Reports whether the record was created.
	FindOrCreate(ctx context.Context, in UpsertResearcherInput) (*Researcher, bool, error)

	// GetByORCID returns a researcher. Returns ErrNotFound when absent.
	GetByORCID(ctx context.Context, orcid string) (*Researcher, error)

	// GetByID returns a researcher. Returns ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*Researcher, error)

	// List returns researchers ordered by most recent sign-in.
	List(ctx context.Context, limit, offset int) ([]Researcher, error)

	// Count returns the number of researchers.
	Count(ctx context.Context) (int64, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "store: researcher not found" }

// IsNotFound reports whether err means the record was absent.
func IsNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}
