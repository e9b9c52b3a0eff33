package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroarts/contest/internal/adapters/repository/memory"
	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
	"github.com/astroarts/contest/internal/core/services"
)

func newPromptFixture(t *testing.T) (*memory.Store, ports.PromptService) {
	t.Helper()
	store := memory.NewStore()
	return store, services.NewPromptService(store.Prompts())
}

func TestCreatePromptAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	_, service := newPromptFixture(t)

	prompt, err := service.Create(ctx, domain.Guest("device-1"), ports.CreatePromptInput{
		Title:    "Nebula dreams",
		ImageURL: "https://example.com/nebula.png",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxVotes, prompt.MaxVotes)
	assert.Equal(t, domain.AnonymousName, prompt.CreatorName)
	assert.Equal(t, "device-1", prompt.AuthorID)
	assert.Nil(t, prompt.Deadline)
}

func TestCreatePromptRequiresTitleAndImage(t *testing.T) {
	ctx := context.Background()
	_, service := newPromptFixture(t)

	_, err := service.Create(ctx, domain.Guest("device-1"), ports.CreatePromptInput{ImageURL: "x"})
	require.Error(t, err)

	_, err = service.Create(ctx, domain.Guest("device-1"), ports.CreatePromptInput{Title: "x"})
	require.Error(t, err)
}

func TestUpdatePromptRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	_, service := newPromptFixture(t)

	prompt, err := service.Create(ctx, domain.Guest("author"), ports.CreatePromptInput{
		Title:    "Nebula dreams",
		ImageURL: "https://example.com/nebula.png",
	})
	require.NoError(t, err)

	deadline := time.Now().Add(time.Hour)
	err = service.Update(ctx, domain.Guest("stranger"), prompt.ID, ports.UpdatePromptInput{
		Deadline: &deadline,
		MaxVotes: 3,
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	err = service.Update(ctx, domain.Guest("author"), prompt.ID, ports.UpdatePromptInput{
		Deadline: &deadline,
		MaxVotes: 3,
	})
	require.NoError(t, err)

	got, err := service.Get(ctx, prompt.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.MaxVotes)
	require.NotNil(t, got.Deadline)
}

func TestAdminCanDeleteAnyPrompt(t *testing.T) {
	ctx := context.Background()
	_, service := newPromptFixture(t)

	prompt, err := service.Create(ctx, domain.Guest("author"), ports.CreatePromptInput{
		Title:    "Nebula dreams",
		ImageURL: "https://example.com/nebula.png",
	})
	require.NoError(t, err)

	err = service.Delete(ctx, domain.Guest("stranger"), prompt.ID)
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	admin := domain.Named("admin-device", domain.AdminDisplayName)
	require.NoError(t, service.Delete(ctx, admin, prompt.ID))

	_, err = service.Get(ctx, prompt.ID)
	require.ErrorIs(t, err, domain.ErrPromptNotFound)
}

func TestDeletePromptKeepsSubmissions(t *testing.T) {
	ctx := context.Background()
	store, service := newPromptFixture(t)

	prompt, err := service.Create(ctx, domain.Guest("author"), ports.CreatePromptInput{
		Title:    "Nebula dreams",
		ImageURL: "https://example.com/nebula.png",
	})
	require.NoError(t, err)
	submission := saveSubmission(t, store, prompt.ID, "luna")

	require.NoError(t, service.Delete(ctx, domain.Guest("author"), prompt.ID))

	// The orphaned submission survives in raw storage.
	got, err := store.Submissions().GetByID(ctx, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, prompt.ID, got.PromptID)
}
