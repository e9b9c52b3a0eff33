package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroarts/contest/internal/adapters/repository/memory"
	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
	"github.com/astroarts/contest/internal/core/services"
)

// deviceStub hands out a fixed sequence of device IDs.
type deviceStub struct {
	ids []string
	i   int
}

func (d *deviceStub) Anonymous(ctx context.Context) (string, error) {
	if d.i >= len(d.ids) {
		return "", context.Canceled
	}
	id := d.ids[d.i]
	d.i++
	return id, nil
}

func newIdentityFixture(t *testing.T, deviceIDs ...string) (*memory.Store, ports.IdentityService) {
	t.Helper()
	store := memory.NewStore()
	devices := &deviceStub{ids: deviceIDs}
	service := services.NewIdentityService(store.Registry(), store.GuestVotes(), devices)
	return store, service
}

func TestClaimRegistersNewUsername(t *testing.T) {
	ctx := context.Background()
	store, service := newIdentityFixture(t)

	outcome, err := service.Claim(ctx, domain.Guest("device-1"), ports.ClaimInput{
		Username: "Luna",
		Secret:   "moonlight",
	})
	require.NoError(t, err)
	assert.True(t, outcome.Created)
	assert.Equal(t, "Luna", outcome.Identity.Username)
	assert.Equal(t, "device-1", outcome.Identity.DeviceID)

	entry, err := store.Registry().Get(ctx, "luna")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "moonlight", entry.SecretPhrase)
	assert.Equal(t, "device-1", entry.CreatedBy)
}

func TestClaimMergesGuestVotes(t *testing.T) {
	ctx := context.Background()
	store, service := newIdentityFixture(t)

	won, err := store.Registry().CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "luna",
		SecretPhrase: "moonlight",
		CreatedBy:    "other-device",
		VotedFor:     []string{"b", "c"},
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	require.True(t, won)

	require.NoError(t, store.GuestVotes().AddVote(ctx, "device-1", "a"))
	require.NoError(t, store.GuestVotes().AddVote(ctx, "device-1", "b"))

	outcome, err := service.Claim(ctx, domain.Guest("device-1"), ports.ClaimInput{
		Username: "luna",
		Secret:   "moonlight",
	})
	require.NoError(t, err)
	assert.False(t, outcome.Created)
	assert.Equal(t, []string{"b", "c", "a"}, outcome.VotedFor)

	entry, err := store.Registry().Get(ctx, "luna")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, entry.VotedFor)
}

func TestClaimRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	store, service := newIdentityFixture(t)

	won, err := store.Registry().CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "luna",
		SecretPhrase: "moonlight",
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	require.True(t, won)

	_, err = service.Claim(ctx, domain.Guest("device-1"), ports.ClaimInput{
		Username: "Luna",
		Secret:   "starlight",
	})
	require.ErrorIs(t, err, domain.ErrSecretMismatch)
}

func TestClaimRejectsEmptyUsername(t *testing.T) {
	_, service := newIdentityFixture(t)

	_, err := service.Claim(context.Background(), domain.Guest("device-1"), ports.ClaimInput{
		Username: "   ",
		Secret:   "whatever",
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestClaimBindingIsImmutable(t *testing.T) {
	ctx := context.Background()
	store, service := newIdentityFixture(t)

	won, err := store.Registry().CreateIfAbsent(ctx, &domain.RegistryEntry{
		Name:         "luna",
		SecretPhrase: "moonlight",
		CreatedAt:    time.Now(),
	})
	require.NoError(t, err)
	require.True(t, won)

	named := domain.Named("device-1", "Luna")
	_, err = service.Claim(ctx, named, ports.ClaimInput{Username: "Nova", Secret: "x"})
	require.ErrorIs(t, err, domain.ErrAlreadyClaimed)

	// Reclaiming the same name is a no-op merge.
	outcome, err := service.Claim(ctx, named, ports.ClaimInput{Username: "LUNA", Secret: "moonlight"})
	require.NoError(t, err)
	assert.Equal(t, "LUNA", outcome.Identity.Username)
}

func TestClaimAdminRequiresPassphrase(t *testing.T) {
	ctx := context.Background()
	_, service := newIdentityFixture(t)

	_, err := service.Claim(ctx, domain.Guest("device-1"), ports.ClaimInput{
		Username: "Tourist",
		Secret:   "guessing",
	})
	require.ErrorIs(t, err, domain.ErrNotAuthorized)

	outcome, err := service.Claim(ctx, domain.Guest("device-1"), ports.ClaimInput{
		Username: "tourist",
		Secret:   domain.AdminPassphrase,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AdminDisplayName, outcome.Identity.Username)
	assert.True(t, outcome.Identity.IsAdmin())
}

func TestDetachIssuesFreshGuest(t *testing.T) {
	ctx := context.Background()
	store, service := newIdentityFixture(t, "device-2")

	require.NoError(t, store.GuestVotes().AddVote(ctx, "device-1", "a"))

	identity, err := service.Detach(ctx, domain.Named("device-1", "Luna"))
	require.NoError(t, err)
	assert.Equal(t, domain.Guest("device-2"), identity)

	// The fresh device starts with an empty vote set; the old guest record
	// is abandoned, not reused.
	record, err := store.GuestVotes().Get(ctx, identity.DeviceID)
	require.NoError(t, err)
	assert.Empty(t, record.VotedFor)
}
