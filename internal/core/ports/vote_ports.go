package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
)

// VoteDelta is the net effect of a toggle: +1 for a cast, -1 for a
// retraction.
type VoteDelta int

const (
	DeltaCast      VoteDelta = 1
	DeltaRetracted VoteDelta = -1
)

// VoteService is the per-identity vote ledger with cap enforcement.
type VoteService interface {
	// Toggle casts a vote on the artwork, or retracts it when the identity
	// already voted for it. Casting fails with ErrVoteCapExceeded once the
	// identity has used the owning prompt's cap, and with ErrVotingClosed
	// after the prompt's deadline.
	Toggle(ctx context.Context, identity domain.Identity, artworkID uuid.UUID) (VoteDelta, error)
	// VotedFor returns the identity's current vote set.
	VotedFor(ctx context.Context, identity domain.Identity) ([]string, error)
}

// ReconcileService recomputes submission vote counters from the raw vote
// sets, healing drift left by the uncoupled counter/set writes.
type ReconcileService interface {
	ReconcileAll(ctx context.Context) error
}
