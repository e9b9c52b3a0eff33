package services

import (
	"context"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

// voteSource is the tagged union over the two vote-ownership
// representations: device-scoped guest records and name-scoped registry
// entries. Callers dispatch through it instead of branching on the identity
// at every site.
type voteSource interface {
	VotedFor(ctx context.Context) ([]string, error)
	Add(ctx context.Context, artworkID string) error
	Remove(ctx context.Context, artworkID string) error
}

type guestVoteSource struct {
	store    ports.GuestVoteStore
	deviceID string
}

func (s guestVoteSource) VotedFor(ctx context.Context) ([]string, error) {
	record, err := s.store.Get(ctx, s.deviceID)
	if err != nil {
		return nil, err
	}
	return record.VotedFor, nil
}

func (s guestVoteSource) Add(ctx context.Context, artworkID string) error {
	return s.store.AddVote(ctx, s.deviceID, artworkID)
}

func (s guestVoteSource) Remove(ctx context.Context, artworkID string) error {
	return s.store.RemoveVote(ctx, s.deviceID, artworkID)
}

type registryVoteSource struct {
	store ports.RegistryStore
	name  string
}

func (s registryVoteSource) VotedFor(ctx context.Context) ([]string, error) {
	entry, err := s.store.Get(ctx, s.name)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return entry.VotedFor, nil
}

func (s registryVoteSource) Add(ctx context.Context, artworkID string) error {
	return s.store.AddVote(ctx, s.name, artworkID)
}

func (s registryVoteSource) Remove(ctx context.Context, artworkID string) error {
	return s.store.RemoveVote(ctx, s.name, artworkID)
}

func voteSourceFor(identity domain.Identity, guests ports.GuestVoteStore, registry ports.RegistryStore) voteSource {
	if identity.IsNamed() {
		return registryVoteSource{store: registry, name: identity.RegistryKey()}
	}
	return guestVoteSource{store: guests, deviceID: identity.DeviceID}
}
