package memory

import (
	"context"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type registryStore struct {
	s *Store
}

// Registry returns the username-registry view of the store.
func (s *Store) Registry() ports.RegistryStore {
	return registryStore{s: s}
}

func (r registryStore) Get(ctx context.Context, name string) (*domain.RegistryEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entry, ok := r.s.registry[name]
	if !ok {
		return nil, nil
	}
	return cloneEntry(entry), nil
}

func (r registryStore) CreateIfAbsent(ctx context.Context, entry *domain.RegistryEntry) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.registry[entry.Name]; ok {
		return false, nil
	}
	r.s.registry[entry.Name] = cloneEntry(entry)
	return true, nil
}

func (r registryStore) MergeVotes(ctx context.Context, name string, artworkIDs []string) error {
	r.s.mu.Lock()
	entry, ok := r.s.registry[name]
	if !ok {
		r.s.mu.Unlock()
		return domain.ErrUnavailable
	}
	for _, id := range artworkIDs {
		if !containsID(entry.VotedFor, id) {
			entry.VotedFor = append(entry.VotedFor, id)
		}
	}
	votedFor := cloneIDs(entry.VotedFor)
	r.s.mu.Unlock()

	r.s.notifyVotes(watchRegistry, name, votedFor)
	return nil
}

func (r registryStore) AddVote(ctx context.Context, name, artworkID string) error {
	return r.MergeVotes(ctx, name, []string{artworkID})
}

func (r registryStore) RemoveVote(ctx context.Context, name, artworkID string) error {
	r.s.mu.Lock()
	entry, ok := r.s.registry[name]
	if !ok {
		r.s.mu.Unlock()
		return domain.ErrUnavailable
	}
	entry.VotedFor = removeID(entry.VotedFor, artworkID)
	votedFor := cloneIDs(entry.VotedFor)
	r.s.mu.Unlock()

	r.s.notifyVotes(watchRegistry, name, votedFor)
	return nil
}

func (r registryStore) GetAll(ctx context.Context) ([]*domain.RegistryEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.RegistryEntry, 0, len(r.s.registry))
	for _, entry := range r.s.registry {
		out = append(out, cloneEntry(entry))
	}
	return out, nil
}

func (r registryStore) Watch(ctx context.Context, name string) (<-chan []string, ports.CancelFunc, error) {
	ch, cancel := r.s.addVoteWatcher(ctx, watchRegistry, name)
	return ch, cancel, nil
}

func cloneEntry(entry *domain.RegistryEntry) *domain.RegistryEntry {
	out := *entry
	out.VotedFor = cloneIDs(entry.VotedFor)
	return &out
}
