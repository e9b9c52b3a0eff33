package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroarts/contest/internal/adapters/repository/memory"
	"github.com/astroarts/contest/internal/core/domain"
)

func TestCreateIfAbsentIsFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	won, err := store.Registry().CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "luna",
		SecretPhrase: "first",
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, won)

	won, err = store.Registry().CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "luna",
		SecretPhrase: "second",
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, won)

	entry, err := store.Registry().Get(ctx, "luna")
	require.NoError(t, err)
	assert.Equal(t, "first", entry.SecretPhrase)
}

func TestAdjustVotesClampsAtZero(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	submission := &domain.Submission{
		ID:        uuid.New(),
		PromptID:  uuid.New(),
		Title:     "Art",
		ImageURL:  "https://example.com/a.png",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Submissions().Save(ctx, submission))

	require.NoError(t, store.Submissions().AdjustVotes(ctx, submission.ID, -5))
	got, err := store.Submissions().GetByID(ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Votes)
}

func TestMergeVotesIsMonotonicUnion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	_, err := store.Registry().CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:      "luna",
		VotedFor:  []string{"a", "b"},
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, store.Registry().MergeVotes(ctx, "luna", []string{"b", "c"}))

	entry, err := store.Registry().Get(ctx, "luna")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, entry.VotedFor)
}

func TestGuestAddVoteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.GuestVotes().AddVote(ctx, "device-1", "a"))
	require.NoError(t, store.GuestVotes().AddVote(ctx, "device-1", "a"))

	record, err := store.GuestVotes().Get(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, record.VotedFor)
}

func TestPromptWatchConflatesToLatest(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	ch, cancel, err := store.Prompts().Watch(ctx)
	require.NoError(t, err)
	defer cancel()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Prompts().Save(ctx, &domain.Prompt{
			ID:        uuid.New(),
			Title:     "Prompt",
			ImageURL:  "https://example.com/p.png",
			MaxVotes:  2,
			CreatedAt: time.Now(),
		}))
	}

	// The stream conflates; eventually the latest state with all three
	// prompts comes through.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case prompts := <-ch:
			if len(prompts) == 3 {
				return
			}
		case <-deadline:
			t.Fatal("never observed latest prompt state")
		}
	}
}

func TestVoteWatchIsScopedToKey(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	ch, cancel, err := store.GuestVotes().Watch(ctx, "device-1")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, store.GuestVotes().AddVote(ctx, "device-2", "other"))
	require.NoError(t, store.GuestVotes().AddVote(ctx, "device-1", "mine"))

	select {
	case votedFor := <-ch:
		assert.Equal(t, []string{"mine"}, votedFor)
	case <-time.After(2 * time.Second):
		t.Fatal("no vote update delivered")
	}
}

func TestWatchCancelClosesStream(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	ch, cancel, err := store.Submissions().Watch(ctx)
	require.NoError(t, err)

	cancel()
	cancel() // second cancel is a no-op

	_, open := <-ch
	assert.False(t, open)
}

func TestWatchContextCancellationClosesStream(t *testing.T) {
	store := memory.NewStore()
	ctx, stop := context.WithCancel(context.Background())

	ch, _, err := store.Prompts().Watch(ctx)
	require.NoError(t, err)

	stop()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("stream not closed on context cancellation")
	}
}
