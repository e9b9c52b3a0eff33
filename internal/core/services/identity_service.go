package services

import (
	"context"
	"fmt"
	"time"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type identityService struct {
	registry ports.RegistryStore
	guests   ports.GuestVoteStore
	devices  ports.IdentityProvider
	now      func() time.Time
}

func NewIdentityService(registry ports.RegistryStore, guests ports.GuestVoteStore, devices ports.IdentityProvider) ports.IdentityService {
	return &identityService{
		registry: registry,
		guests:   guests,
		devices:  devices,
		now:      time.Now,
	}
}

func (s *identityService) Claim(ctx context.Context, current domain.Identity, input ports.ClaimInput) (*ports.ClaimOutcome, error) {
	key := domain.NormalizeUsername(input.Username)
	if key == "" {
		return nil, domain.ErrNotAuthorized
	}
	// The binding is immutable for the session. Reclaiming the same name
	// is a harmless no-op merge.
	if current.IsNamed() && current.RegistryKey() != key {
		return nil, domain.ErrAlreadyClaimed
	}

	entry, err := s.registry.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	created := false
	if entry == nil {
		if key == domain.AdminKey && input.Secret != domain.AdminPassphrase {
			return nil, domain.ErrNotAuthorized
		}
		candidate := &domain.RegistryEntry{
			Name:         key,
			SecretPhrase: input.Secret,
			CreatedBy:    current.DeviceID,
			CreatedAt:    s.now(),
		}
		won, err := s.registry.CreateIfAbsent(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to register username: %w", err)
		}
		if won {
			created = true
			entry = candidate
		} else {
			// Lost the create race to another device; the entry now
			// exists and the secret gate decides, same as any reclaim.
			entry, err = s.registry.Get(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("failed to re-read registry: %w", err)
			}
			if entry == nil {
				return nil, domain.ErrUnavailable
			}
		}
	}

	if !created && entry.SecretPhrase != input.Secret {
		return nil, domain.ErrSecretMismatch
	}

	guestRecord, err := s.guests.Get(ctx, current.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to read guest votes: %w", err)
	}
	if len(guestRecord.VotedFor) > 0 {
		if err := s.registry.MergeVotes(ctx, key, guestRecord.VotedFor); err != nil {
			return nil, fmt.Errorf("failed to merge guest votes: %w", err)
		}
	}

	merged := dedupUnion(entry.VotedFor, guestRecord.VotedFor)
	identity := domain.Named(current.DeviceID, domain.CanonicalDisplayName(input.Username))

	return &ports.ClaimOutcome{
		Identity: identity,
		Created:  created,
		VotedFor: merged,
	}, nil
}

func (s *identityService) Detach(ctx context.Context, current domain.Identity) (domain.Identity, error) {
	// The registry entry is untouched. The device gets a fresh anonymous
	// principal, so the old guest record is abandoned rather than reused.
	deviceID, err := s.devices.Anonymous(ctx)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to issue anonymous principal: %w", err)
	}
	return domain.Guest(deviceID), nil
}

// dedupUnion merges two vote sets preserving first-seen order.
func dedupUnion(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	for _, id := range b {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}
