package memory

import (
	"context"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type guestVoteStore struct {
	s *Store
}

// GuestVotes returns the device-scoped vote-record view of the store.
func (s *Store) GuestVotes() ports.GuestVoteStore {
	return guestVoteStore{s: s}
}

func (r guestVoteStore) Get(ctx context.Context, deviceID string) (*domain.GuestVoteRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return &domain.GuestVoteRecord{
		DeviceID: deviceID,
		VotedFor: cloneIDs(r.s.guestVotes[deviceID]),
	}, nil
}

func (r guestVoteStore) AddVote(ctx context.Context, deviceID, artworkID string) error {
	r.s.mu.Lock()
	votedFor := r.s.guestVotes[deviceID]
	if !containsID(votedFor, artworkID) {
		votedFor = append(votedFor, artworkID)
		r.s.guestVotes[deviceID] = votedFor
	}
	snapshot := cloneIDs(votedFor)
	r.s.mu.Unlock()

	r.s.notifyVotes(watchGuest, deviceID, snapshot)
	return nil
}

func (r guestVoteStore) RemoveVote(ctx context.Context, deviceID, artworkID string) error {
	r.s.mu.Lock()
	votedFor := removeID(r.s.guestVotes[deviceID], artworkID)
	r.s.guestVotes[deviceID] = votedFor
	snapshot := cloneIDs(votedFor)
	r.s.mu.Unlock()

	r.s.notifyVotes(watchGuest, deviceID, snapshot)
	return nil
}

func (r guestVoteStore) GetAll(ctx context.Context) ([]*domain.GuestVoteRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.GuestVoteRecord, 0, len(r.s.guestVotes))
	for deviceID, votedFor := range r.s.guestVotes {
		out = append(out, &domain.GuestVoteRecord{
			DeviceID: deviceID,
			VotedFor: cloneIDs(votedFor),
		})
	}
	return out, nil
}

func (r guestVoteStore) Watch(ctx context.Context, deviceID string) (<-chan []string, ports.CancelFunc, error) {
	ch, cancel := r.s.addVoteWatcher(ctx, watchGuest, deviceID)
	return ch, cancel, nil
}
