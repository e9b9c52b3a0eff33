package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
)

// CancelFunc releases a change subscription. Every Watch call pairs with
// exactly one CancelFunc invocation; after cancellation the stream channel
// is closed.
type CancelFunc func()

// PromptStore is the document-store view of the prompts collection.
type PromptStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Prompt, error)
	GetAll(ctx context.Context) ([]*domain.Prompt, error)
	Save(ctx context.Context, prompt *domain.Prompt) error
	// UpdateRules changes the only mutable prompt fields. The password is
	// immutable after creation and deliberately not reachable from here.
	UpdateRules(ctx context.Context, id uuid.UUID, deadline *time.Time, maxVotes int) error
	Delete(ctx context.Context, id uuid.UUID) error
	Watch(ctx context.Context) (<-chan []*domain.Prompt, CancelFunc, error)
}

// SubmissionStore is the document-store view of the submissions collection.
// Deleting a prompt never cascades here: orphaned submissions stay in raw
// storage and are filtered out by the derived views.
type SubmissionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	GetAll(ctx context.Context) ([]*domain.Submission, error)
	Save(ctx context.Context, submission *domain.Submission) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustVotes applies an atomic counter delta. It is a separate write
	// from the identity's vote-set mutation; a crash between the two can
	// leave the counter transiently off until reconciled.
	AdjustVotes(ctx context.Context, id uuid.UUID, delta int) error
	SetVotes(ctx context.Context, id uuid.UUID, votes int) error
	AppendComment(ctx context.Context, id uuid.UUID, comment domain.Comment) error
	Watch(ctx context.Context) (<-chan []*domain.Submission, CancelFunc, error)
}

// RegistryStore is the document-store view of the global username registry,
// keyed by lowercase username.
type RegistryStore interface {
	// Get returns nil, nil when no entry exists for the key.
	Get(ctx context.Context, name string) (*domain.RegistryEntry, error)
	// CreateIfAbsent inserts the entry only when the key is free and
	// reports whether it won. Losers must re-read and go through the
	// secret check instead of overwriting.
	CreateIfAbsent(ctx context.Context, entry *domain.RegistryEntry) (bool, error)
	// MergeVotes unions the given artwork IDs into the entry's vote set.
	// Merging is monotonic: it never removes votes.
	MergeVotes(ctx context.Context, name string, artworkIDs []string) error
	AddVote(ctx context.Context, name, artworkID string) error
	RemoveVote(ctx context.Context, name, artworkID string) error
	GetAll(ctx context.Context) ([]*domain.RegistryEntry, error)
	Watch(ctx context.Context, name string) (<-chan []string, CancelFunc, error)
}

// GuestVoteStore holds the device-scoped vote records used before a
// username is claimed.
type GuestVoteStore interface {
	// Get returns an empty record, not an error, for unknown devices.
	Get(ctx context.Context, deviceID string) (*domain.GuestVoteRecord, error)
	AddVote(ctx context.Context, deviceID, artworkID string) error
	RemoveVote(ctx context.Context, deviceID, artworkID string) error
	GetAll(ctx context.Context) ([]*domain.GuestVoteRecord, error)
	Watch(ctx context.Context, deviceID string) (<-chan []string, CancelFunc, error)
}
