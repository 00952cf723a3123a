package login

import (
	"context"
	"sync"
)

// Status of a callback evaluation.
type Status int

const (
	// StatusPending means the exchange was dispatched and the result is
	// not yet known.
	StatusPending Status = iota
	StatusSucceeded
	StatusFailed
	StatusAlreadyAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusAlreadyAuthenticated:
		return "already_authenticated"
	default:
		return "pending"
	}
}

// Outcome is the landing decision for one callback.
type Outcome struct {
	Status  Status
	Message string // set when Status is StatusFailed
}

// AuthCollaborator is the authentication backend the dispatcher drives.
type AuthCollaborator interface {
	// ExchangeCode redeems the authorization code. A nil return means
	// the researcher is signed in afterwards.
	ExchangeCode(ctx context.Context, code string) error

	// IsAuthenticated reports whether the request already carries a
	// valid session.
	IsAuthenticated(ctx context.Context) bool
}

// Navigator performs history-replacing navigation, so the callback URL
// with its spent code never stays reachable via the back button.
type Navigator interface {
	ReplaceCurrentLocation(path string)
}

// Dispatcher evaluates one callback landing. The latch guarantees at
// most one exchange per instance regardless of how often the landing is
// re-evaluated; build a fresh Dispatcher per landing.
type Dispatcher struct {
	collab AuthCollaborator
	nav    Navigator
	root   string

	mu         sync.Mutex
	dispatched bool
	outcome    Outcome

	done      chan struct{}
	closeOnce sync.Once
}

// NewDispatcher builds a dispatcher that sends already-authenticated
// researchers to root.
func NewDispatcher(collab AuthCollaborator, nav Navigator, root string) *Dispatcher {
	if root == "" {
		root = "/"
	}
	return &Dispatcher{
		collab: collab,
		nav:    nav,
		root:   root,
		done:   make(chan struct{}),
	}
}

// Evaluate runs one observation of the callback parameters and returns
// the outcome as of this observation. An exchange kicked off here
// completes in the background; wait on Done for the terminal outcome.
func (d *Dispatcher) Evaluate(ctx context.Context, params CallbackParams) Outcome {
	// An existing session wins over everything else, including a code
	// in the URL. Send the researcher home instead of spending the code.
	if d.collab.IsAuthenticated(ctx) {
		d.mu.Lock()
		d.outcome = Outcome{Status: StatusAlreadyAuthenticated}
		out := d.outcome
		d.mu.Unlock()

		d.nav.ReplaceCurrentLocation(d.root)
		d.finish()
		return out
	}

	d.mu.Lock()
	if d.dispatched {
		out := d.outcome
		d.mu.Unlock()
		return out
	}
	// The latch is set before the exchange starts, so a re-evaluation
	// racing the dispatch can never trigger a second one.
	d.dispatched = true

	if params.ErrorCode != "" {
		d.outcome = Outcome{
			Status:  StatusFailed,
			Message: "ORCID authentication failed: " + params.ErrorCode,
		}
		out := d.outcome
		d.mu.Unlock()
		d.finish()
		return out
	}

	if params.Code == "" {
		d.outcome = Outcome{
			Status:  StatusFailed,
			Message: "No authorization code received from ORCID",
		}
		out := d.outcome
		d.mu.Unlock()
		d.finish()
		return out
	}

	d.outcome = Outcome{Status: StatusPending}
	out := d.outcome
	d.mu.Unlock()

	go d.exchange(ctx, params.Code)
	return out
}

func (d *Dispatcher) exchange(ctx context.Context, code string) {
	err := d.collab.ExchangeCode(ctx, code)

	// The researcher may be gone by the time the exchange returns. A
	// dead landing must not mutate anything.
	if ctx.Err() != nil {
		return
	}

	d.mu.Lock()
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Authentication failed"
		}
		d.outcome = Outcome{Status: StatusFailed, Message: msg}
	} else {
		// No navigation on success. The redirect home happens on the
		// next evaluation that observes the fresh session.
		d.outcome = Outcome{Status: StatusSucceeded}
	}
	d.mu.Unlock()
	d.finish()
}

func (d *Dispatcher) finish() {
	d.closeOnce.Do(func() { close(d.done) })
}

// Outcome returns the current landing decision.
func (d *Dispatcher) Outcome() Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outcome
}

// Done is closed once the outcome is terminal. It never closes when the
// evaluation context was cancelled mid-exchange.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}
