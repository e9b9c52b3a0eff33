package ports

import (
	"context"

	"github.com/astroarts/contest/internal/core/domain"
)

// SessionState is the coordinator's position in the identity state machine.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateGuest
	StateNamed
)

func (s SessionState) String() string {
	switch s {
	case StateGuest:
		return "guest"
	case StateNamed:
		return "named"
	default:
		return "unauthenticated"
	}
}

// SyncService keeps one session's snapshot in step with the external change
// streams and re-wires the vote subscription when the identity changes.
type SyncService interface {
	// Start signs the device in anonymously and subscribes to the prompt,
	// submission and device vote streams.
	Start(ctx context.Context) error
	// Claim binds the session to a username and atomically switches the
	// vote subscription to the registry entry: consumers never observe an
	// empty vote set during the switch.
	Claim(ctx context.Context, input ClaimInput) (domain.Identity, error)
	// Detach reverses the switch toward a fresh, empty device-scoped vote
	// stream.
	Detach(ctx context.Context) (domain.Identity, error)
	Identity() domain.Identity
	State() SessionState
	Snapshot() domain.Snapshot
	// OnChange registers the consumer callback, invoked synchronously
	// after each applied snapshot change.
	OnChange(fn func(domain.Snapshot))
	Stop()
}
