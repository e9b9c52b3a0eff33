package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type promptRepository struct {
	db      *sql.DB
	connStr string
}

func NewPromptRepository(db *sql.DB, connStr string) ports.PromptStore {
	return &promptRepository{db: db, connStr: connStr}
}

func (r *promptRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Prompt, error) {
	query := `
		SELECT id, title, image_url, password, deadline, max_votes, creator_name, author_id, created_at
		FROM prompts
		WHERE id = $1
	`
	var prompt domain.Prompt
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&prompt.ID, &prompt.Title, &prompt.ImageURL, &prompt.Password,
		&prompt.Deadline, &prompt.MaxVotes, &prompt.CreatorName,
		&prompt.AuthorID, &prompt.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPromptNotFound
		}
		return nil, fmt.Errorf("failed to get prompt: %w", mapError(err))
	}
	return &prompt, nil
}

func (r *promptRepository) GetAll(ctx context.Context) ([]*domain.Prompt, error) {
	query := `
		SELECT id, title, image_url, password, deadline, max_votes, creator_name, author_id, created_at
		FROM prompts
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all prompts: %w", mapError(err))
	}
	defer rows.Close()

	var prompts []*domain.Prompt
	for rows.Next() {
		var prompt domain.Prompt
		if err := rows.Scan(
			&prompt.ID, &prompt.Title, &prompt.ImageURL, &prompt.Password,
			&prompt.Deadline, &prompt.MaxVotes, &prompt.CreatorName,
			&prompt.AuthorID, &prompt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, &prompt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prompts: %w", err)
	}
	return prompts, nil
}

func (r *promptRepository) Save(ctx context.Context, prompt *domain.Prompt) error {
	query := `
		INSERT INTO prompts (id, title, image_url, password, deadline, max_votes, creator_name, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		prompt.ID, prompt.Title, prompt.ImageURL, prompt.Password,
		prompt.Deadline, prompt.MaxVotes, prompt.CreatorName,
		prompt.AuthorID, prompt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prompt: %w", mapError(err))
	}
	return nil
}

func (r *promptRepository) UpdateRules(ctx context.Context, id uuid.UUID, deadline *time.Time, maxVotes int) error {
	query := `UPDATE prompts SET deadline = $2, max_votes = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, deadline, maxVotes)
	if err != nil {
		return fmt.Errorf("failed to update prompt: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check prompt update: %w", err)
	}
	if affected == 0 {
		return domain.ErrPromptNotFound
	}
	return nil
}

func (r *promptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prompt: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check prompt delete: %w", err)
	}
	if affected == 0 {
		return domain.ErrPromptNotFound
	}
	return nil
}

func (r *promptRepository) Watch(ctx context.Context) (<-chan []*domain.Prompt, ports.CancelFunc, error) {
	payloads, cancel, err := listen(ctx, r.connStr, channelPrompts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen for prompt changes: %w", err)
	}

	out := make(chan []*domain.Prompt, 1)
	go func() {
		defer close(out)
		for range payloads {
			prompts, err := r.GetAll(ctx)
			if err != nil {
				continue
			}
			select {
			case out <- prompts:
			default:
				select {
				case <-out:
				default:
				}
				select {
				case out <- prompts:
				default:
				}
			}
		}
	}()
	return out, cancel, nil
}
