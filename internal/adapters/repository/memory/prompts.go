package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type promptStore struct {
	s *Store
}

// Prompts returns the prompts-collection view of the store.
func (s *Store) Prompts() ports.PromptStore {
	return promptStore{s: s}
}

func (r promptStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Prompt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	prompt, ok := r.s.prompts[id]
	if !ok {
		return nil, domain.ErrPromptNotFound
	}
	return clonePrompt(prompt), nil
}

func (r promptStore) GetAll(ctx context.Context) ([]*domain.Prompt, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.allPromptsLocked(), nil
}

func (r promptStore) Save(ctx context.Context, prompt *domain.Prompt) error {
	r.s.mu.Lock()
	if _, ok := r.s.prompts[prompt.ID]; !ok {
		r.s.promptOrder = append(r.s.promptOrder, prompt.ID)
	}
	r.s.prompts[prompt.ID] = clonePrompt(prompt)
	r.s.mu.Unlock()

	r.s.notifyPrompts()
	return nil
}

func (r promptStore) UpdateRules(ctx context.Context, id uuid.UUID, deadline *time.Time, maxVotes int) error {
	r.s.mu.Lock()
	prompt, ok := r.s.prompts[id]
	if !ok {
		r.s.mu.Unlock()
		return domain.ErrPromptNotFound
	}
	if deadline != nil {
		d := *deadline
		prompt.Deadline = &d
	} else {
		prompt.Deadline = nil
	}
	prompt.MaxVotes = maxVotes
	r.s.mu.Unlock()

	r.s.notifyPrompts()
	return nil
}

func (r promptStore) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	if _, ok := r.s.prompts[id]; !ok {
		r.s.mu.Unlock()
		return domain.ErrPromptNotFound
	}
	delete(r.s.prompts, id)
	order := make([]uuid.UUID, 0, len(r.s.promptOrder))
	for _, pid := range r.s.promptOrder {
		if pid != id {
			order = append(order, pid)
		}
	}
	r.s.promptOrder = order
	r.s.mu.Unlock()

	r.s.notifyPrompts()
	return nil
}

func (r promptStore) Watch(ctx context.Context) (<-chan []*domain.Prompt, ports.CancelFunc, error) {
	ch, cancel := r.s.addPromptWatcher(ctx)
	return ch, cancel, nil
}

func (s *Store) allPrompts() []*domain.Prompt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allPromptsLocked()
}

func (s *Store) allPromptsLocked() []*domain.Prompt {
	out := make([]*domain.Prompt, 0, len(s.promptOrder))
	for _, id := range s.promptOrder {
		out = append(out, clonePrompt(s.prompts[id]))
	}
	return out
}

func clonePrompt(p *domain.Prompt) *domain.Prompt {
	out := *p
	if p.Deadline != nil {
		d := *p.Deadline
		out.Deadline = &d
	}
	return &out
}
