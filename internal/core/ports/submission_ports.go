package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
)

type CreateSubmissionInput struct {
	PromptID        uuid.UUID
	Title           string
	ImageURL        string
	PasswordAttempt string
}

type SubmissionService interface {
	Create(ctx context.Context, identity domain.Identity, input CreateSubmissionInput) (*domain.Submission, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	List(ctx context.Context) ([]*domain.Submission, error)
	// Delete refuses once the owning prompt's deadline has passed:
	// archived submissions are part of the museum.
	Delete(ctx context.Context, identity domain.Identity, id uuid.UUID) error
	AddComment(ctx context.Context, identity domain.Identity, id uuid.UUID, text string) (*domain.Comment, error)
}
