// Package memory is an in-process document store with change notification.
// It backs unit tests and embedded single-process deployments with the same
// semantics the postgres adapter provides: insert-if-absent registry
// creation, atomic counter adjustment and per-query change streams.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type voteWatcherKind int

const (
	watchGuest voteWatcherKind = iota
	watchRegistry
)

type voteWatcher struct {
	kind voteWatcherKind
	key  string
	ch   chan []string
}

type Store struct {
	mu              sync.RWMutex
	prompts         map[uuid.UUID]*domain.Prompt
	promptOrder     []uuid.UUID
	submissions     map[uuid.UUID]*domain.Submission
	submissionOrder []uuid.UUID
	registry        map[string]*domain.RegistryEntry
	guestVotes      map[string][]string

	watchersMu         sync.Mutex
	nextWatcherID      int
	promptWatchers     map[int]chan []*domain.Prompt
	submissionWatchers map[int]chan []*domain.Submission
	voteWatchers       map[int]*voteWatcher
}

func NewStore() *Store {
	return &Store{
		prompts:            make(map[uuid.UUID]*domain.Prompt),
		submissions:        make(map[uuid.UUID]*domain.Submission),
		registry:           make(map[string]*domain.RegistryEntry),
		guestVotes:         make(map[string][]string),
		promptWatchers:     make(map[int]chan []*domain.Prompt),
		submissionWatchers: make(map[int]chan []*domain.Submission),
		voteWatchers:       make(map[int]*voteWatcher),
	}
}

// Streams conflate: a slow consumer observes the latest state, not every
// intermediate one.
func sendPrompts(ch chan []*domain.Prompt, snap []*domain.Prompt) {
	select {
	case ch <- snap:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func sendSubmissions(ch chan []*domain.Submission, snap []*domain.Submission) {
	select {
	case ch <- snap:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func sendVotes(ch chan []string, snap []string) {
	select {
	case ch <- snap:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Store) notifyPrompts() {
	snap := s.allPrompts()
	s.watchersMu.Lock()
	defer s.watchersMu.Unlock()
	for _, ch := range s.promptWatchers {
		sendPrompts(ch, snap)
	}
}

func (s *Store) notifySubmissions() {
	snap := s.allSubmissions()
	s.watchersMu.Lock()
	defer s.watchersMu.Unlock()
	for _, ch := range s.submissionWatchers {
		sendSubmissions(ch, snap)
	}
}

func (s *Store) notifyVotes(kind voteWatcherKind, key string, votedFor []string) {
	snap := cloneIDs(votedFor)
	s.watchersMu.Lock()
	defer s.watchersMu.Unlock()
	for _, w := range s.voteWatchers {
		if w.kind == kind && w.key == key {
			sendVotes(w.ch, snap)
		}
	}
}

func (s *Store) addPromptWatcher(ctx context.Context) (<-chan []*domain.Prompt, ports.CancelFunc) {
	s.watchersMu.Lock()
	id := s.nextWatcherID
	s.nextWatcherID++
	ch := make(chan []*domain.Prompt, 1)
	s.promptWatchers[id] = ch
	s.watchersMu.Unlock()

	cancel := func() {
		s.watchersMu.Lock()
		defer s.watchersMu.Unlock()
		if _, ok := s.promptWatchers[id]; ok {
			delete(s.promptWatchers, id)
			close(ch)
		}
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel
}

func (s *Store) addSubmissionWatcher(ctx context.Context) (<-chan []*domain.Submission, ports.CancelFunc) {
	s.watchersMu.Lock()
	id := s.nextWatcherID
	s.nextWatcherID++
	ch := make(chan []*domain.Submission, 1)
	s.submissionWatchers[id] = ch
	s.watchersMu.Unlock()

	cancel := func() {
		s.watchersMu.Lock()
		defer s.watchersMu.Unlock()
		if _, ok := s.submissionWatchers[id]; ok {
			delete(s.submissionWatchers, id)
			close(ch)
		}
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel
}

func (s *Store) addVoteWatcher(ctx context.Context, kind voteWatcherKind, key string) (<-chan []string, ports.CancelFunc) {
	s.watchersMu.Lock()
	id := s.nextWatcherID
	s.nextWatcherID++
	w := &voteWatcher{kind: kind, key: key, ch: make(chan []string, 1)}
	s.voteWatchers[id] = w
	s.watchersMu.Unlock()

	cancel := func() {
		s.watchersMu.Lock()
		defer s.watchersMu.Unlock()
		if _, ok := s.voteWatchers[id]; ok {
			delete(s.voteWatchers, id)
			close(w.ch)
		}
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return w.ch, cancel
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func containsID(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func removeID(ids []string, target string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
