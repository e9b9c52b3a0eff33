package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type registryRepository struct {
	db      *sql.DB
	connStr string
}

func NewRegistryRepository(db *sql.DB, connStr string) ports.RegistryStore {
	return &registryRepository{db: db, connStr: connStr}
}

func (r *registryRepository) Get(ctx context.Context, name string) (*domain.RegistryEntry, error) {
	query := `
		SELECT username, secret_phrase, created_by, voted_for, created_at
		FROM registry
		WHERE username = $1
	`
	var entry domain.RegistryEntry
	var votedFor pq.StringArray
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&entry.Name, &entry.SecretPhrase, &entry.CreatedBy,
		&votedFor, &entry.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get registry entry: %w", mapError(err))
	}
	entry.VotedFor = votedFor
	return &entry, nil
}

func (r *registryRepository) CreateIfAbsent(ctx context.Context, entry *domain.RegistryEntry) (bool, error) {
	// ON CONFLICT DO NOTHING makes the claim race a single round trip: the
	// first writer wins and everyone else sees zero rows affected.
	query := `
		INSERT INTO registry (username, secret_phrase, created_by, voted_for, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query,
		entry.Name, entry.SecretPhrase, entry.CreatedBy,
		pq.StringArray(entry.VotedFor), entry.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create registry entry: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check registry insert: %w", err)
	}
	return affected == 1, nil
}

func (r *registryRepository) MergeVotes(ctx context.Context, name string, artworkIDs []string) error {
	if len(artworkIDs) == 0 {
		return nil
	}
	// Order-preserving union: existing votes keep their positions and only
	// IDs not already present are appended.
	query := `
		UPDATE registry
		SET voted_for = voted_for || (
			SELECT COALESCE(array_agg(v), '{}')
			FROM unnest($2::text[]) AS v
			WHERE NOT voted_for @> ARRAY[v]
		)
		WHERE username = $1
	`
	result, err := r.db.ExecContext(ctx, query, name, pq.StringArray(artworkIDs))
	if err != nil {
		return fmt.Errorf("failed to merge votes: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check vote merge: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("registry entry %q missing: %w", name, domain.ErrUnavailable)
	}
	return nil
}

func (r *registryRepository) AddVote(ctx context.Context, name, artworkID string) error {
	query := `
		UPDATE registry
		SET voted_for = array_append(voted_for, $2)
		WHERE username = $1 AND NOT voted_for @> ARRAY[$2]::text[]
	`
	if _, err := r.db.ExecContext(ctx, query, name, artworkID); err != nil {
		return fmt.Errorf("failed to add vote: %w", mapError(err))
	}
	return nil
}

func (r *registryRepository) RemoveVote(ctx context.Context, name, artworkID string) error {
	query := `
		UPDATE registry
		SET voted_for = array_remove(voted_for, $2)
		WHERE username = $1
	`
	if _, err := r.db.ExecContext(ctx, query, name, artworkID); err != nil {
		return fmt.Errorf("failed to remove vote: %w", mapError(err))
	}
	return nil
}

func (r *registryRepository) GetAll(ctx context.Context) ([]*domain.RegistryEntry, error) {
	query := `
		SELECT username, secret_phrase, created_by, voted_for, created_at
		FROM registry
		ORDER BY created_at, username
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all registry entries: %w", mapError(err))
	}
	defer rows.Close()

	var entries []*domain.RegistryEntry
	for rows.Next() {
		var entry domain.RegistryEntry
		var votedFor pq.StringArray
		if err := rows.Scan(
			&entry.Name, &entry.SecretPhrase, &entry.CreatedBy,
			&votedFor, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registry entry: %w", err)
		}
		entry.VotedFor = votedFor
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registry entries: %w", err)
	}
	return entries, nil
}

func (r *registryRepository) Watch(ctx context.Context, name string) (<-chan []string, ports.CancelFunc, error) {
	payloads, cancel, err := listen(ctx, r.connStr, channelRegistry)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen for registry changes: %w", err)
	}

	out := make(chan []string, 1)
	go func() {
		defer close(out)
		for payload := range payloads {
			// The trigger payload carries the changed username; an empty
			// payload means a reconnect, which must be treated as a
			// potential change.
			if payload != "" && payload != name {
				continue
			}
			entry, err := r.Get(ctx, name)
			if err != nil {
				continue
			}
			votedFor := []string{}
			if entry != nil {
				votedFor = entry.VotedFor
			}
			select {
			case out <- votedFor:
			default:
				select {
				case <-out:
				default:
				}
				select {
				case out <- votedFor:
				default:
				}
			}
		}
	}()
	return out, cancel, nil
}
