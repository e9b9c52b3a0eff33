package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

var errSessionNotStarted = errors.New("session not started")

// syncService drives one device session. All snapshot mutations funnel
// through a single apply loop, so every change notification is fully applied
// and observed before the next one is processed.
type syncService struct {
	prompts     ports.PromptStore
	submissions ports.SubmissionStore
	guests      ports.GuestVoteStore
	registry    ports.RegistryStore
	identities  ports.IdentityService
	devices     ports.IdentityProvider
	log         zerolog.Logger

	watchCtx    context.Context
	watchCancel context.CancelFunc
	updates     chan func()
	done        chan struct{}
	stopOnce    sync.Once

	mu         sync.Mutex
	state      ports.SessionState
	snap       domain.Snapshot
	onChange   func(domain.Snapshot)
	cancels    []ports.CancelFunc
	voteCancel ports.CancelFunc
	// voteGen fences deliveries from a replaced vote stream: a stale guest
	// update must never overwrite the registry vote set after a claim.
	voteGen int
}

func NewSyncService(
	prompts ports.PromptStore,
	submissions ports.SubmissionStore,
	guests ports.GuestVoteStore,
	registry ports.RegistryStore,
	identities ports.IdentityService,
	devices ports.IdentityProvider,
	log zerolog.Logger,
) ports.SyncService {
	return &syncService{
		prompts:     prompts,
		submissions: submissions,
		guests:      guests,
		registry:    registry,
		identities:  identities,
		devices:     devices,
		log:         log,
		updates:     make(chan func(), 32),
		done:        make(chan struct{}),
	}
}

func (s *syncService) Start(ctx context.Context) error {
	deviceID, err := s.devices.Anonymous(ctx)
	if err != nil {
		return fmt.Errorf("failed to sign in anonymously: %w", err)
	}
	identity := domain.Guest(deviceID)

	// Initial snapshot is loaded synchronously before any stream is wired,
	// so the first observation is never partial.
	prompts, err := s.prompts.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}
	submissions, err := s.submissions.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load submissions: %w", err)
	}
	guestRecord, err := s.guests.Get(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("failed to load guest votes: %w", err)
	}

	s.watchCtx, s.watchCancel = context.WithCancel(context.Background())

	promptCh, cancelPrompts, err := s.prompts.Watch(s.watchCtx)
	if err != nil {
		return fmt.Errorf("failed to watch prompts: %w", err)
	}
	submissionCh, cancelSubmissions, err := s.submissions.Watch(s.watchCtx)
	if err != nil {
		cancelPrompts()
		return fmt.Errorf("failed to watch submissions: %w", err)
	}
	voteCh, cancelVotes, err := s.guests.Watch(s.watchCtx, deviceID)
	if err != nil {
		cancelPrompts()
		cancelSubmissions()
		return fmt.Errorf("failed to watch guest votes: %w", err)
	}

	s.mu.Lock()
	s.state = ports.StateGuest
	s.snap = domain.Snapshot{
		Prompts:     prompts,
		Submissions: submissions,
		VotedFor:    guestRecord.VotedFor,
		Identity:    identity,
	}
	s.cancels = []ports.CancelFunc{cancelPrompts, cancelSubmissions}
	s.voteCancel = cancelVotes
	gen := s.voteGen
	s.mu.Unlock()

	go s.run()
	s.forwardPrompts(promptCh)
	s.forwardSubmissions(submissionCh)
	s.forwardVotes(voteCh, gen)

	s.log.Info().Str("device_id", deviceID).Msg("session started as guest")
	return nil
}

func (s *syncService) Claim(ctx context.Context, input ports.ClaimInput) (domain.Identity, error) {
	s.mu.Lock()
	if s.state == ports.StateUnauthenticated {
		s.mu.Unlock()
		return domain.Identity{}, errSessionNotStarted
	}
	current := s.snap.Identity
	s.mu.Unlock()

	outcome, err := s.identities.Claim(ctx, current, input)
	if err != nil {
		return domain.Identity{}, err
	}

	// The merged set from the claim seeds the snapshot before the stream
	// switch, so votedFor never reads empty during the handover.
	s.mu.Lock()
	oldCancel := s.voteCancel
	s.voteGen++
	gen := s.voteGen
	s.state = ports.StateNamed
	s.snap.Identity = outcome.Identity
	s.snap.VotedFor = outcome.VotedFor
	snap := s.snap
	cb := s.onChange
	s.mu.Unlock()

	if oldCancel != nil {
		oldCancel()
	}
	if cb != nil {
		cb(snap)
	}

	voteCh, cancelVotes, err := s.registry.Watch(s.watchCtx, outcome.Identity.RegistryKey())
	if err != nil {
		return outcome.Identity, fmt.Errorf("failed to watch registry votes: %w", err)
	}
	s.mu.Lock()
	s.voteCancel = cancelVotes
	s.mu.Unlock()
	s.forwardVotes(voteCh, gen)

	s.log.Info().
		Str("username", outcome.Identity.Username).
		Bool("created", outcome.Created).
		Msg("session claimed username")
	return outcome.Identity, nil
}

func (s *syncService) Detach(ctx context.Context) (domain.Identity, error) {
	s.mu.Lock()
	if s.state == ports.StateUnauthenticated {
		s.mu.Unlock()
		return domain.Identity{}, errSessionNotStarted
	}
	current := s.snap.Identity
	s.mu.Unlock()

	identity, err := s.identities.Detach(ctx, current)
	if err != nil {
		return domain.Identity{}, err
	}

	s.mu.Lock()
	oldCancel := s.voteCancel
	s.voteGen++
	gen := s.voteGen
	s.state = ports.StateGuest
	s.snap.Identity = identity
	s.snap.VotedFor = nil
	snap := s.snap
	cb := s.onChange
	s.mu.Unlock()

	if oldCancel != nil {
		oldCancel()
	}
	if cb != nil {
		cb(snap)
	}

	voteCh, cancelVotes, err := s.guests.Watch(s.watchCtx, identity.DeviceID)
	if err != nil {
		return identity, fmt.Errorf("failed to watch guest votes: %w", err)
	}
	s.mu.Lock()
	s.voteCancel = cancelVotes
	s.mu.Unlock()
	s.forwardVotes(voteCh, gen)

	s.log.Info().Str("device_id", identity.DeviceID).Msg("session detached")
	return identity, nil
}

func (s *syncService) Identity() domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Identity
}

func (s *syncService) State() ports.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *syncService) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *syncService) OnChange(fn func(domain.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *syncService) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		cancels := s.cancels
		voteCancel := s.voteCancel
		s.cancels = nil
		s.voteCancel = nil
		s.state = ports.StateUnauthenticated
		s.mu.Unlock()

		for _, cancel := range cancels {
			cancel()
		}
		if voteCancel != nil {
			voteCancel()
		}
		if s.watchCancel != nil {
			s.watchCancel()
		}
		close(s.done)
	})
}

func (s *syncService) run() {
	for {
		select {
		case apply := <-s.updates:
			apply()
		case <-s.done:
			return
		}
	}
}

// push queues a snapshot mutation for the apply loop and fires the consumer
// callback after it lands.
func (s *syncService) push(mutate func()) {
	apply := func() {
		s.mu.Lock()
		mutate()
		snap := s.snap
		cb := s.onChange
		s.mu.Unlock()
		if cb != nil {
			cb(snap)
		}
	}
	select {
	case s.updates <- apply:
	case <-s.done:
	}
}

func (s *syncService) forwardPrompts(ch <-chan []*domain.Prompt) {
	go func() {
		for prompts := range ch {
			prompts := prompts
			s.push(func() { s.snap.Prompts = prompts })
		}
	}()
}

func (s *syncService) forwardSubmissions(ch <-chan []*domain.Submission) {
	go func() {
		for submissions := range ch {
			submissions := submissions
			s.push(func() { s.snap.Submissions = submissions })
		}
	}()
}

func (s *syncService) forwardVotes(ch <-chan []string, gen int) {
	go func() {
		for votedFor := range ch {
			votedFor := votedFor
			s.push(func() {
				if s.voteGen == gen {
					s.snap.VotedFor = votedFor
				}
			})
		}
	}()
}
