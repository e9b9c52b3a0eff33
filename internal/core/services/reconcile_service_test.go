package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroarts/contest/internal/adapters/repository/memory"
	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/services"
)

func TestReconcileHealsCounterDrift(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := services.NewReconcileService(store.Submissions(), store.Registry(), store.GuestVotes(), zerolog.Nop())

	prompt := savePrompt(t, store, 2, nil)
	drifted := saveSubmission(t, store, prompt.ID, "luna")
	correct := saveSubmission(t, store, prompt.ID, "nova")

	// Two guest votes and one registry vote for the drifted submission, but
	// its counter was never incremented.
	require.NoError(t, store.GuestVotes().AddVote(ctx, "device-1", drifted.ID.String()))
	require.NoError(t, store.GuestVotes().AddVote(ctx, "device-2", drifted.ID.String()))

	won, err := store.Registry().CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "stella",
		SecretPhrase: "s",
		CreatedBy:    "device-3",
		VotedFor:     []string{drifted.ID.String(), correct.ID.String()},
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	require.True(t, won)
	require.NoError(t, store.Submissions().SetVotes(ctx, correct.ID, 1))

	require.NoError(t, service.ReconcileAll(ctx))

	got, err := store.Submissions().GetByID(ctx, drifted.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Votes)

	got, err = store.Submissions().GetByID(ctx, correct.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Votes)
}

func TestReconcileSkipsMergedGuestRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := services.NewReconcileService(store.Submissions(), store.Registry(), store.GuestVotes(), zerolog.Nop())

	prompt := savePrompt(t, store, 2, nil)
	submission := saveSubmission(t, store, prompt.ID, "luna")

	// The guest voted, claimed a name and the vote was merged. Counting the
	// abandoned guest record again would double the vote.
	require.NoError(t, store.GuestVotes().AddVote(ctx, "device-1", submission.ID.String()))
	won, err := store.Registry().CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "luna",
		SecretPhrase: "s",
		CreatedBy:    "device-1",
		VotedFor:     []string{submission.ID.String()},
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	require.True(t, won)

	require.NoError(t, service.ReconcileAll(ctx))

	got, err := store.Submissions().GetByID(ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Votes)
}
