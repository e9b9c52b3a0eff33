package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroarts/contest/internal/adapters/auth"
	"github.com/astroarts/contest/internal/core/domain"
)

func TestIssueParseRoundTrip(t *testing.T) {
	tokens := auth.NewDeviceTokens("test-secret", time.Hour)

	for _, identity := range []domain.Identity{
		domain.Guest("device-1"),
		domain.Named("device-1", "Luna"),
	} {
		signed, err := tokens.Issue(identity)
		require.NoError(t, err)

		parsed, err := tokens.Parse(signed)
		require.NoError(t, err)
		assert.Equal(t, identity, parsed)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signer := auth.NewDeviceTokens("secret-a", time.Hour)
	verifier := auth.NewDeviceTokens("secret-b", time.Hour)

	signed, err := signer.Issue(domain.Guest("device-1"))
	require.NoError(t, err)

	_, err = verifier.Parse(signed)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	tokens := auth.NewDeviceTokens("test-secret", time.Hour)

	_, err := tokens.Parse("not-a-token")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tokens := auth.NewDeviceTokens("test-secret", -time.Minute)

	signed, err := tokens.Issue(domain.Guest("device-1"))
	require.NoError(t, err)

	_, err = tokens.Parse(signed)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAnonymousIssuesUniqueDevices(t *testing.T) {
	tokens := auth.NewDeviceTokens("test-secret", time.Hour)

	a, err := tokens.Anonymous(context.Background())
	require.NoError(t, err)
	b, err := tokens.Anonymous(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}
