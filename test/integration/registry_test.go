package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/astroarts/contest/internal/adapters/repository/postgres"
	"github.com/astroarts/contest/internal/core/domain"
)

func TestRegistryCreateIfAbsentRace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	dbContainer, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	defer dbContainer.Terminate(ctx)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, applyMigrations(db))

	registry := repo.NewRegistryRepository(db, connStr)

	won, err := registry.CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "luna",
		SecretPhrase: "first",
		CreatedBy:    "device-1",
		VotedFor:     []string{},
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, won)

	won, err = registry.CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "luna",
		SecretPhrase: "second",
		CreatedBy:    "device-2",
		VotedFor:     []string{},
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, won)

	entry, err := registry.Get(ctx, "luna")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "first", entry.SecretPhrase)
	assert.Equal(t, "device-1", entry.CreatedBy)
}

func TestRegistryVoteSetOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	dbContainer, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	defer dbContainer.Terminate(ctx)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, applyMigrations(db))

	registry := repo.NewRegistryRepository(db, connStr)

	_, err = registry.CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "luna",
		SecretPhrase: "s",
		VotedFor:     []string{"a", "b"},
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)

	// AddVote is idempotent.
	require.NoError(t, registry.AddVote(ctx, "luna", "c"))
	require.NoError(t, registry.AddVote(ctx, "luna", "c"))

	// MergeVotes unions without duplicating.
	require.NoError(t, registry.MergeVotes(ctx, "luna", []string{"b", "d"}))

	entry, err := registry.Get(ctx, "luna")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, entry.VotedFor)

	require.NoError(t, registry.RemoveVote(ctx, "luna", "b"))
	entry, err = registry.Get(ctx, "luna")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, entry.VotedFor)
}

func TestRegistryWatchDeliversChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	dbContainer, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	defer dbContainer.Terminate(ctx)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, applyMigrations(db))

	registry := repo.NewRegistryRepository(db, connStr)

	_, err = registry.CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "luna",
		SecretPhrase: "s",
		VotedFor:     []string{},
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)

	ch, cancel, err := registry.Watch(ctx, "luna")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, registry.AddVote(ctx, "luna", "artwork-1"))

	deadline := time.After(10 * time.Second)
	for {
		select {
		case votedFor := <-ch:
			if len(votedFor) == 1 && votedFor[0] == "artwork-1" {
				return
			}
		case <-deadline:
			t.Fatal("no registry change delivered")
		}
	}
}

func TestGuestVoteUpsert(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	dbContainer, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	defer dbContainer.Terminate(ctx)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, applyMigrations(db))

	guests := repo.NewGuestVoteRepository(db, connStr)

	// Unknown devices read as empty, not as an error.
	record, err := guests.Get(ctx, "device-1")
	require.NoError(t, err)
	assert.Empty(t, record.VotedFor)

	require.NoError(t, guests.AddVote(ctx, "device-1", "a"))
	require.NoError(t, guests.AddVote(ctx, "device-1", "b"))
	require.NoError(t, guests.AddVote(ctx, "device-1", "a"))

	record, err = guests.Get(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, record.VotedFor)

	require.NoError(t, guests.RemoveVote(ctx, "device-1", "a"))
	record, err = guests.Get(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, record.VotedFor)
}
