package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type guestVoteRepository struct {
	db      *sql.DB
	connStr string
}

func NewGuestVoteRepository(db *sql.DB, connStr string) ports.GuestVoteStore {
	return &guestVoteRepository{db: db, connStr: connStr}
}

func (r *guestVoteRepository) Get(ctx context.Context, deviceID string) (*domain.GuestVoteRecord, error) {
	var votedFor pq.StringArray
	err := r.db.QueryRowContext(ctx,
		`SELECT voted_for FROM guest_votes WHERE device_id = $1`, deviceID,
	).Scan(&votedFor)
	if err != nil {
		if err == sql.ErrNoRows {
			return &domain.GuestVoteRecord{DeviceID: deviceID, VotedFor: []string{}}, nil
		}
		return nil, fmt.Errorf("failed to get guest votes: %w", mapError(err))
	}
	return &domain.GuestVoteRecord{DeviceID: deviceID, VotedFor: votedFor}, nil
}

func (r *guestVoteRepository) AddVote(ctx context.Context, deviceID, artworkID string) error {
	query := `
		INSERT INTO guest_votes (device_id, voted_for)
		VALUES ($1, ARRAY[$2]::text[])
		ON CONFLICT (device_id) DO UPDATE
		SET voted_for = array_append(guest_votes.voted_for, $2)
		WHERE NOT guest_votes.voted_for @> ARRAY[$2]::text[]
	`
	if _, err := r.db.ExecContext(ctx, query, deviceID, artworkID); err != nil {
		return fmt.Errorf("failed to add guest vote: %w", mapError(err))
	}
	return nil
}

func (r *guestVoteRepository) RemoveVote(ctx context.Context, deviceID, artworkID string) error {
	query := `
		UPDATE guest_votes
		SET voted_for = array_remove(voted_for, $2)
		WHERE device_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, deviceID, artworkID); err != nil {
		return fmt.Errorf("failed to remove guest vote: %w", mapError(err))
	}
	return nil
}

func (r *guestVoteRepository) GetAll(ctx context.Context) ([]*domain.GuestVoteRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT device_id, voted_for FROM guest_votes`)
	if err != nil {
		return nil, fmt.Errorf("failed to get all guest votes: %w", mapError(err))
	}
	defer rows.Close()

	var records []*domain.GuestVoteRecord
	for rows.Next() {
		var record domain.GuestVoteRecord
		var votedFor pq.StringArray
		if err := rows.Scan(&record.DeviceID, &votedFor); err != nil {
			return nil, fmt.Errorf("failed to scan guest votes: %w", err)
		}
		record.VotedFor = votedFor
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guest votes: %w", err)
	}
	return records, nil
}

func (r *guestVoteRepository) Watch(ctx context.Context, deviceID string) (<-chan []string, ports.CancelFunc, error) {
	payloads, cancel, err := listen(ctx, r.connStr, channelGuestVotes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen for guest vote changes: %w", err)
	}

	out := make(chan []string, 1)
	go func() {
		defer close(out)
		for payload := range payloads {
			if payload != "" && payload != deviceID {
				continue
			}
			record, err := r.Get(ctx, deviceID)
			if err != nil {
				continue
			}
			select {
			case out <- record.VotedFor:
			default:
				select {
				case <-out:
				default:
				}
				select {
				case out <- record.VotedFor:
				default:
				}
			}
		}
	}()
	return out, cancel, nil
}
