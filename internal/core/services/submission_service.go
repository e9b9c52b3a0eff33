package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type submissionService struct {
	prompts     ports.PromptStore
	submissions ports.SubmissionStore
	now         func() time.Time
}

func NewSubmissionService(prompts ports.PromptStore, submissions ports.SubmissionStore) ports.SubmissionService {
	return &submissionService{
		prompts:     prompts,
		submissions: submissions,
		now:         time.Now,
	}
}

func (s *submissionService) Create(ctx context.Context, identity domain.Identity, input ports.CreateSubmissionInput) (*domain.Submission, error) {
	if input.ImageURL == "" {
		return nil, errors.New("image is required")
	}

	prompt, err := s.prompts.GetByID(ctx, input.PromptID)
	if err != nil {
		return nil, err
	}
	if prompt.Expired(s.now()) {
		return nil, domain.ErrPromptClosed
	}
	if input.PasswordAttempt != prompt.Password {
		return nil, domain.ErrWrongPassword
	}

	submission := &domain.Submission{
		ID:         uuid.New(),
		PromptID:   prompt.ID,
		Title:      input.Title,
		ImageURL:   input.ImageURL,
		ArtistName: identity.DisplayName(),
		Votes:      0,
		Comments:   []domain.Comment{},
		AuthorID:   identity.DeviceID,
		CreatedAt:  s.now(),
	}

	if err := s.submissions.Save(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *submissionService) Get(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	return s.submissions.GetByID(ctx, id)
}

func (s *submissionService) List(ctx context.Context) ([]*domain.Submission, error) {
	return s.submissions.GetAll(ctx)
}

func (s *submissionService) Delete(ctx context.Context, identity domain.Identity, id uuid.UUID) error {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !identity.IsAdmin() && submission.AuthorID != identity.DeviceID {
		return domain.ErrNotAuthorized
	}

	// An orphaned submission (prompt already deleted) can still be
	// removed by its author; an archived one cannot.
	prompt, err := s.prompts.GetByID(ctx, submission.PromptID)
	if err != nil && !errors.Is(err, domain.ErrPromptNotFound) {
		return err
	}
	if prompt != nil && prompt.Expired(s.now()) {
		return domain.ErrPromptClosed
	}

	return s.submissions.Delete(ctx, id)
}

func (s *submissionService) AddComment(ctx context.Context, identity domain.Identity, id uuid.UUID, text string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("comment text is required")
	}

	if _, err := s.submissions.GetByID(ctx, id); err != nil {
		return nil, err
	}

	comment := domain.Comment{
		ID:         uuid.New(),
		Text:       text,
		AuthorID:   identity.DeviceID,
		AuthorName: identity.DisplayName(),
		CreatedAt:  s.now(),
	}
	if err := s.submissions.AppendComment(ctx, id, comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
