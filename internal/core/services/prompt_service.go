package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type promptService struct {
	prompts ports.PromptStore
	now     func() time.Time
}

func NewPromptService(prompts ports.PromptStore) ports.PromptService {
	return &promptService{prompts: prompts, now: time.Now}
}

func (s *promptService) Create(ctx context.Context, identity domain.Identity, input ports.CreatePromptInput) (*domain.Prompt, error) {
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	if input.ImageURL == "" {
		return nil, errors.New("image is required")
	}

	maxVotes := input.MaxVotes
	if maxVotes < 1 {
		maxVotes = domain.DefaultMaxVotes
	}

	prompt := &domain.Prompt{
		ID:          uuid.New(),
		Title:       input.Title,
		ImageURL:    input.ImageURL,
		Password:    input.Password,
		Deadline:    input.Deadline,
		MaxVotes:    maxVotes,
		CreatorName: identity.DisplayName(),
		AuthorID:    identity.DeviceID,
		CreatedAt:   s.now(),
	}

	if err := s.prompts.Save(ctx, prompt); err != nil {
		return nil, err
	}
	return prompt, nil
}

func (s *promptService) Get(ctx context.Context, id uuid.UUID) (*domain.Prompt, error) {
	return s.prompts.GetByID(ctx, id)
}

func (s *promptService) List(ctx context.Context) ([]*domain.Prompt, error) {
	return s.prompts.GetAll(ctx)
}

func (s *promptService) Update(ctx context.Context, identity domain.Identity, id uuid.UUID, input ports.UpdatePromptInput) error {
	prompt, err := s.prompts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !prompt.EditableBy(identity) {
		return domain.ErrNotAuthorized
	}

	maxVotes := input.MaxVotes
	if maxVotes < 1 {
		maxVotes = domain.DefaultMaxVotes
	}
	return s.prompts.UpdateRules(ctx, id, input.Deadline, maxVotes)
}

func (s *promptService) Delete(ctx context.Context, identity domain.Identity, id uuid.UUID) error {
	prompt, err := s.prompts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !prompt.EditableBy(identity) {
		return domain.ErrNotAuthorized
	}
	// Submissions under the prompt stay in raw storage; the derived views
	// stop showing them once the prompt is gone.
	return s.prompts.Delete(ctx, id)
}
