package ports

import (
	"context"

	"github.com/astroarts/contest/internal/core/domain"
)

// IdentityProvider hands out anonymous, durable-per-device principals.
type IdentityProvider interface {
	Anonymous(ctx context.Context) (deviceID string, err error)
}

type ClaimInput struct {
	Username string
	Secret   string
}

type ClaimOutcome struct {
	Identity domain.Identity
	// Created is true when the claim registered a brand-new username
	// rather than reclaiming an existing one.
	Created bool
	// VotedFor is the merged vote set after the claim.
	VotedFor []string
}

// IdentityService owns the claim/merge protocol between a device and the
// global username registry.
type IdentityService interface {
	Claim(ctx context.Context, current domain.Identity, input ClaimInput) (*ClaimOutcome, error)
	// Detach drops the live binding back to a fresh guest identity. The
	// registry entry is untouched; reclaiming requires the secret again.
	Detach(ctx context.Context, current domain.Identity) (domain.Identity, error)
}
