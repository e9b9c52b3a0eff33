package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type submissionStore struct {
	s *Store
}

// Submissions returns the submissions-collection view of the store.
func (s *Store) Submissions() ports.SubmissionStore {
	return submissionStore{s: s}
}

func (r submissionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	submission, ok := r.s.submissions[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	return cloneSubmission(submission), nil
}

func (r submissionStore) GetAll(ctx context.Context) ([]*domain.Submission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.allSubmissionsLocked(), nil
}

func (r submissionStore) Save(ctx context.Context, submission *domain.Submission) error {
	r.s.mu.Lock()
	if _, ok := r.s.submissions[submission.ID]; !ok {
		r.s.submissionOrder = append(r.s.submissionOrder, submission.ID)
	}
	r.s.submissions[submission.ID] = cloneSubmission(submission)
	r.s.mu.Unlock()

	r.s.notifySubmissions()
	return nil
}

// Delete removes the submission itself. Prompt deletion never reaches here:
// orphans stay in raw storage.
func (r submissionStore) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	if _, ok := r.s.submissions[id]; !ok {
		r.s.mu.Unlock()
		return domain.ErrSubmissionNotFound
	}
	delete(r.s.submissions, id)
	order := make([]uuid.UUID, 0, len(r.s.submissionOrder))
	for _, sid := range r.s.submissionOrder {
		if sid != id {
			order = append(order, sid)
		}
	}
	r.s.submissionOrder = order
	r.s.mu.Unlock()

	r.s.notifySubmissions()
	return nil
}

func (r submissionStore) AdjustVotes(ctx context.Context, id uuid.UUID, delta int) error {
	r.s.mu.Lock()
	submission, ok := r.s.submissions[id]
	if !ok {
		r.s.mu.Unlock()
		return domain.ErrSubmissionNotFound
	}
	submission.Votes += delta
	if submission.Votes < 0 {
		submission.Votes = 0
	}
	r.s.mu.Unlock()

	r.s.notifySubmissions()
	return nil
}

func (r submissionStore) SetVotes(ctx context.Context, id uuid.UUID, votes int) error {
	r.s.mu.Lock()
	submission, ok := r.s.submissions[id]
	if !ok {
		r.s.mu.Unlock()
		return domain.ErrSubmissionNotFound
	}
	submission.Votes = votes
	r.s.mu.Unlock()

	r.s.notifySubmissions()
	return nil
}

func (r submissionStore) AppendComment(ctx context.Context, id uuid.UUID, comment domain.Comment) error {
	r.s.mu.Lock()
	submission, ok := r.s.submissions[id]
	if !ok {
		r.s.mu.Unlock()
		return domain.ErrSubmissionNotFound
	}
	submission.Comments = append(submission.Comments, comment)
	r.s.mu.Unlock()

	r.s.notifySubmissions()
	return nil
}

func (r submissionStore) Watch(ctx context.Context) (<-chan []*domain.Submission, ports.CancelFunc, error) {
	ch, cancel := r.s.addSubmissionWatcher(ctx)
	return ch, cancel, nil
}

func (s *Store) allSubmissions() []*domain.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allSubmissionsLocked()
}

func (s *Store) allSubmissionsLocked() []*domain.Submission {
	out := make([]*domain.Submission, 0, len(s.submissionOrder))
	for _, id := range s.submissionOrder {
		out = append(out, cloneSubmission(s.submissions[id]))
	}
	return out
}

func cloneSubmission(sub *domain.Submission) *domain.Submission {
	out := *sub
	out.Comments = make([]domain.Comment, len(sub.Comments))
	copy(out.Comments, sub.Comments)
	return &out
}
