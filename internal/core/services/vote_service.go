package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type voteService struct {
	prompts     ports.PromptStore
	submissions ports.SubmissionStore
	guests      ports.GuestVoteStore
	registry    ports.RegistryStore
	now         func() time.Time
}

func NewVoteService(prompts ports.PromptStore, submissions ports.SubmissionStore, guests ports.GuestVoteStore, registry ports.RegistryStore) ports.VoteService {
	return &voteService{
		prompts:     prompts,
		submissions: submissions,
		guests:      guests,
		registry:    registry,
		now:         time.Now,
	}
}

func (s *voteService) Toggle(ctx context.Context, identity domain.Identity, artworkID uuid.UUID) (ports.VoteDelta, error) {
	submission, err := s.submissions.GetByID(ctx, artworkID)
	if err != nil {
		return 0, err
	}

	prompt, err := s.prompts.GetByID(ctx, submission.PromptID)
	if err != nil {
		return 0, err
	}
	if prompt.Expired(s.now()) {
		return 0, domain.ErrVotingClosed
	}

	source := voteSourceFor(identity, s.guests, s.registry)
	votedFor, err := source.VotedFor(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read vote set: %w", err)
	}

	target := artworkID.String()
	if contains(votedFor, target) {
		// Retraction. The set mutation and the counter adjustment are two
		// independent writes; only the counter adjustment is atomic.
		if err := source.Remove(ctx, target); err != nil {
			return 0, fmt.Errorf("failed to retract vote: %w", err)
		}
		if err := s.submissions.AdjustVotes(ctx, artworkID, -1); err != nil {
			return 0, fmt.Errorf("failed to decrement vote counter: %w", err)
		}
		return ports.DeltaRetracted, nil
	}

	used, err := s.votesUsed(ctx, votedFor, prompt.ID)
	if err != nil {
		return 0, err
	}
	if used >= prompt.MaxVotes {
		return 0, domain.ErrVoteCapExceeded
	}

	if err := source.Add(ctx, target); err != nil {
		return 0, fmt.Errorf("failed to cast vote: %w", err)
	}
	if err := s.submissions.AdjustVotes(ctx, artworkID, 1); err != nil {
		return 0, fmt.Errorf("failed to increment vote counter: %w", err)
	}
	return ports.DeltaCast, nil
}

func (s *voteService) VotedFor(ctx context.Context, identity domain.Identity) ([]string, error) {
	return voteSourceFor(identity, s.guests, s.registry).VotedFor(ctx)
}

// votesUsed counts the identity's votes that land on the prompt's own
// submissions, so caps never leak across prompts.
func (s *voteService) votesUsed(ctx context.Context, votedFor []string, promptID uuid.UUID) (int, error) {
	all, err := s.submissions.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list submissions: %w", err)
	}

	promptSubmissionIDs := make(map[string]struct{})
	for _, sub := range all {
		if sub.PromptID == promptID {
			promptSubmissionIDs[sub.ID.String()] = struct{}{}
		}
	}

	used := 0
	for _, id := range votedFor {
		if _, ok := promptSubmissionIDs[id]; ok {
			used++
		}
	}
	return used, nil
}

func contains(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
