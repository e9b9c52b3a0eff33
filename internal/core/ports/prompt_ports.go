package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
)

type CreatePromptInput struct {
	Title    string
	ImageURL string
	Password string
	Deadline *time.Time
	MaxVotes int
}

type UpdatePromptInput struct {
	Deadline *time.Time
	MaxVotes int
}

type PromptService interface {
	Create(ctx context.Context, identity domain.Identity, input CreatePromptInput) (*domain.Prompt, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Prompt, error)
	List(ctx context.Context) ([]*domain.Prompt, error)
	Update(ctx context.Context, identity domain.Identity, id uuid.UUID, input UpdatePromptInput) error
	Delete(ctx context.Context, identity domain.Identity, id uuid.UUID) error
}
