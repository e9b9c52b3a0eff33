package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type submissionRepository struct {
	db      *sql.DB
	connStr string
}

func NewSubmissionRepository(db *sql.DB, connStr string) ports.SubmissionStore {
	return &submissionRepository{db: db, connStr: connStr}
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, prompt_id, title, image_url, artist_name, votes, author_id, created_at
		FROM submissions
		WHERE id = $1
	`
	var submission domain.Submission
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&submission.ID, &submission.PromptID, &submission.Title,
		&submission.ImageURL, &submission.ArtistName, &submission.Votes,
		&submission.AuthorID, &submission.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", mapError(err))
	}

	if err := r.fetchComments(ctx, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) GetAll(ctx context.Context) ([]*domain.Submission, error) {
	query := `
		SELECT id, prompt_id, title, image_url, artist_name, votes, author_id, created_at
		FROM submissions
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all submissions: %w", mapError(err))
	}
	defer rows.Close()

	var submissions []*domain.Submission
	for rows.Next() {
		var submission domain.Submission
		if err := rows.Scan(
			&submission.ID, &submission.PromptID, &submission.Title,
			&submission.ImageURL, &submission.ArtistName, &submission.Votes,
			&submission.AuthorID, &submission.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, &submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	for _, submission := range submissions {
		if err := r.fetchComments(ctx, submission); err != nil {
			return nil, err
		}
	}
	return submissions, nil
}

func (r *submissionRepository) fetchComments(ctx context.Context, submission *domain.Submission) error {
	query := `
		SELECT id, text, author_id, author_name, created_at
		FROM submission_comments
		WHERE submission_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, submission.ID)
	if err != nil {
		return fmt.Errorf("failed to get comments: %w", mapError(err))
	}
	defer rows.Close()

	submission.Comments = []domain.Comment{}
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID, &comment.Text, &comment.AuthorID,
			&comment.AuthorName, &comment.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		submission.Comments = append(submission.Comments, comment)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating comments: %w", err)
	}
	return nil
}

func (r *submissionRepository) Save(ctx context.Context, submission *domain.Submission) error {
	query := `
		INSERT INTO submissions (id, prompt_id, title, image_url, artist_name, votes, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		submission.ID, submission.PromptID, submission.Title,
		submission.ImageURL, submission.ArtistName, submission.Votes,
		submission.AuthorID, submission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", mapError(err))
	}
	return nil
}

func (r *submissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check submission delete: %w", err)
	}
	if affected == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (r *submissionRepository) AdjustVotes(ctx context.Context, id uuid.UUID, delta int) error {
	// GREATEST clamps the counter at zero so a duplicate retraction can
	// never drive it negative.
	query := `UPDATE submissions SET votes = GREATEST(votes + $2, 0) WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust votes: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check vote adjustment: %w", err)
	}
	if affected == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (r *submissionRepository) SetVotes(ctx context.Context, id uuid.UUID, votes int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE submissions SET votes = $2 WHERE id = $1`, id, votes)
	if err != nil {
		return fmt.Errorf("failed to set votes: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check vote update: %w", err)
	}
	if affected == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (r *submissionRepository) AppendComment(ctx context.Context, id uuid.UUID, comment domain.Comment) error {
	query := `
		INSERT INTO submission_comments (id, submission_id, text, author_id, author_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, id, comment.Text, comment.AuthorID,
		comment.AuthorName, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", mapError(err))
	}
	return nil
}

func (r *submissionRepository) Watch(ctx context.Context) (<-chan []*domain.Submission, ports.CancelFunc, error) {
	payloads, cancel, err := listen(ctx, r.connStr, channelSubmissions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen for submission changes: %w", err)
	}

	out := make(chan []*domain.Submission, 1)
	go func() {
		defer close(out)
		for range payloads {
			submissions, err := r.GetAll(ctx)
			if err != nil {
				continue
			}
			select {
			case out <- submissions:
			default:
				select {
				case <-out:
				default:
				}
				select {
				case out <- submissions:
				default:
				}
			}
		}
	}()
	return out, cancel, nil
}
