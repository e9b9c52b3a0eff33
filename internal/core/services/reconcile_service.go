package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/astroarts/contest/internal/core/ports"
)

type reconcileService struct {
	submissions ports.SubmissionStore
	registry    ports.RegistryStore
	guests      ports.GuestVoteStore
	log         zerolog.Logger
}

func NewReconcileService(submissions ports.SubmissionStore, registry ports.RegistryStore, guests ports.GuestVoteStore, log zerolog.Logger) ports.ReconcileService {
	return &reconcileService{
		submissions: submissions,
		registry:    registry,
		guests:      guests,
		log:         log,
	}
}

// ReconcileAll recounts every submission's vote counter from the raw vote
// sets. Guest records whose device later registered a username are skipped:
// their votes were merged into the registry entry and the guest set is
// abandoned, not deleted.
func (s *reconcileService) ReconcileAll(ctx context.Context) error {
	entries, err := s.registry.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list registry entries: %w", err)
	}
	guestRecords, err := s.guests.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list guest records: %w", err)
	}

	merged := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		merged[entry.CreatedBy] = struct{}{}
	}

	counts := make(map[string]int)
	for _, entry := range entries {
		for _, id := range entry.VotedFor {
			counts[id]++
		}
	}
	for _, record := range guestRecords {
		if _, ok := merged[record.DeviceID]; ok {
			continue
		}
		for _, id := range record.VotedFor {
			counts[id]++
		}
	}

	submissions, err := s.submissions.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(submissions))

	for _, submission := range submissions {
		want := counts[submission.ID.String()]
		if submission.Votes == want {
			continue
		}

		wg.Add(1)
		go func(id uuid.UUID, have, want int) {
			defer wg.Done()
			s.log.Warn().
				Str("submission_id", id.String()).
				Int("have", have).
				Int("want", want).
				Msg("vote counter drift detected")
			if err := s.submissions.SetVotes(ctx, id, want); err != nil {
				errCh <- fmt.Errorf("failed to reconcile submission %s: %w", id, err)
			}
		}(submission.ID, submission.Votes, want)
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}
