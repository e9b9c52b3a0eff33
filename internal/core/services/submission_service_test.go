package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroarts/contest/internal/adapters/repository/memory"
	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
	"github.com/astroarts/contest/internal/core/services"
)

func newSubmissionFixture(t *testing.T) (*memory.Store, ports.SubmissionService) {
	t.Helper()
	store := memory.NewStore()
	return store, services.NewSubmissionService(store.Prompts(), store.Submissions())
}

func protectedPrompt(t *testing.T, store *memory.Store, password string) *domain.Prompt {
	t.Helper()
	prompt := &domain.Prompt{
		ID:        uuid.New(),
		Title:     "Nebula dreams",
		ImageURL:  "https://example.com/nebula.png",
		Password:  password,
		MaxVotes:  2,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Prompts().Save(context.Background(), prompt))
	return prompt
}

func TestCreateSubmissionChecksPassword(t *testing.T) {
	ctx := context.Background()
	store, service := newSubmissionFixture(t)
	prompt := protectedPrompt(t, store, "open sesame")

	_, err := service.Create(ctx, domain.Guest("device-1"), ports.CreateSubmissionInput{
		PromptID:        prompt.ID,
		Title:           "Starfield",
		ImageURL:        "https://example.com/a.png",
		PasswordAttempt: "wrong",
	})
	require.ErrorIs(t, err, domain.ErrWrongPassword)

	submission, err := service.Create(ctx, domain.Guest("device-1"), ports.CreateSubmissionInput{
		PromptID:        prompt.ID,
		Title:           "Starfield",
		ImageURL:        "https://example.com/a.png",
		PasswordAttempt: "open sesame",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, submission.Votes)
	assert.Equal(t, domain.AnonymousName, submission.ArtistName)
	assert.Equal(t, "device-1", submission.AuthorID)
}

func TestCreateSubmissionUsesClaimedName(t *testing.T) {
	ctx := context.Background()
	store, service := newSubmissionFixture(t)
	prompt := savePrompt(t, store, 2, nil)

	submission, err := service.Create(ctx, domain.Named("device-1", "Luna"), ports.CreateSubmissionInput{
		PromptID: prompt.ID,
		Title:    "Starfield",
		ImageURL: "https://example.com/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Luna", submission.ArtistName)
}

func TestCreateSubmissionRejectsClosedPrompt(t *testing.T) {
	ctx := context.Background()
	store, service := newSubmissionFixture(t)
	past := time.Now().Add(-time.Hour)
	prompt := savePrompt(t, store, 2, &past)

	_, err := service.Create(ctx, domain.Guest("device-1"), ports.CreateSubmissionInput{
		PromptID: prompt.ID,
		Title:    "Starfield",
		ImageURL: "https://example.com/a.png",
	})
	require.ErrorIs(t, err, domain.ErrPromptClosed)
}

func TestDeleteSubmissionAuthorization(t *testing.T) {
	ctx := context.Background()
	store, service := newSubmissionFixture(t)
	prompt := savePrompt(t, store, 2, nil)

	submission, err := service.Create(ctx, domain.Guest("author"), ports.CreateSubmissionInput{
		PromptID: prompt.ID,
		Title:    "Starfield",
		ImageURL: "https://example.com/a.png",
	})
	require.NoError(t, err)

	err = service.Delete(ctx, domain.Guest("stranger"), submission.ID)
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	require.NoError(t, service.Delete(ctx, domain.Guest("author"), submission.ID))
}

func TestDeleteArchivedSubmissionRefused(t *testing.T) {
	ctx := context.Background()
	store, service := newSubmissionFixture(t)
	prompt := savePrompt(t, store, 2, nil)

	submission, err := service.Create(ctx, domain.Guest("author"), ports.CreateSubmissionInput{
		PromptID: prompt.ID,
		Title:    "Starfield",
		ImageURL: "https://example.com/a.png",
	})
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, store.Prompts().UpdateRules(ctx, prompt.ID, &past, prompt.MaxVotes))

	err = service.Delete(ctx, domain.Guest("author"), submission.ID)
	require.ErrorIs(t, err, domain.ErrPromptClosed)
}

func TestDeleteOrphanedSubmissionAllowed(t *testing.T) {
	ctx := context.Background()
	store, service := newSubmissionFixture(t)
	prompt := savePrompt(t, store, 2, nil)

	submission, err := service.Create(ctx, domain.Guest("author"), ports.CreateSubmissionInput{
		PromptID: prompt.ID,
		Title:    "Starfield",
		ImageURL: "https://example.com/a.png",
	})
	require.NoError(t, err)
	require.NoError(t, store.Prompts().Delete(ctx, prompt.ID))

	require.NoError(t, service.Delete(ctx, domain.Guest("author"), submission.ID))
}

func TestAddCommentTrimsAndRecordsAuthor(t *testing.T) {
	ctx := context.Background()
	store, service := newSubmissionFixture(t)
	prompt := savePrompt(t, store, 2, nil)

	submission, err := service.Create(ctx, domain.Guest("author"), ports.CreateSubmissionInput{
		PromptID: prompt.ID,
		Title:    "Starfield",
		ImageURL: "https://example.com/a.png",
	})
	require.NoError(t, err)

	_, err = service.AddComment(ctx, domain.Named("device-2", "Nova"), submission.ID, "   ")
	require.Error(t, err)

	comment, err := service.AddComment(ctx, domain.Named("device-2", "Nova"), submission.ID, "  stellar work  ")
	require.NoError(t, err)
	assert.Equal(t, "stellar work", comment.Text)
	assert.Equal(t, "Nova", comment.AuthorName)

	got, err := service.Get(ctx, submission.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, comment.ID, got.Comments[0].ID)
}
