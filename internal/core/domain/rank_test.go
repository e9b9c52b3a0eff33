package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/astroarts/contest/internal/core/domain"
)

func TestRankTiers(t *testing.T) {
	tests := []struct {
		votes int
		want  string
	}{
		{0, domain.RankSpaceCadet},
		{1, domain.RankMoonWalker},
		{9, domain.RankMoonWalker},
		{10, domain.RankNebulaArtisan},
		{24, domain.RankNebulaArtisan},
		{25, domain.RankGalacticMaster},
		{49, domain.RankGalacticMaster},
		{50, domain.RankUniverseCreator},
		{500, domain.RankUniverseCreator},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.Rank(tt.votes), "votes=%d", tt.votes)
	}
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "luna", domain.NormalizeUsername("  LuNa "))
	assert.Equal(t, "", domain.NormalizeUsername("   "))
}

func TestCanonicalDisplayName(t *testing.T) {
	assert.Equal(t, "Luna", domain.CanonicalDisplayName(" Luna "))
	assert.Equal(t, domain.AdminDisplayName, domain.CanonicalDisplayName("tOURIST"))
}

func TestIdentityAdminCheckIsCaseInsensitive(t *testing.T) {
	assert.True(t, domain.Named("d", "TOURIST").IsAdmin())
	assert.False(t, domain.Named("d", "tourista").IsAdmin())
	assert.False(t, domain.Guest("d").IsAdmin())
}
