package domain

// Artist rank tiers, awarded by total votes collected across all valid
// submissions. Boundaries are inclusive on the lower bound.
const (
	RankSpaceCadet      = "Space Cadet"
	RankMoonWalker      = "Moon Walker"
	RankNebulaArtisan   = "Nebula Artisan"
	RankGalacticMaster  = "Galactic Master"
	RankUniverseCreator = "Universe Creator"
)

func Rank(totalVotes int) string {
	switch {
	case totalVotes >= 50:
		return RankUniverseCreator
	case totalVotes >= 25:
		return RankGalacticMaster
	case totalVotes >= 10:
		return RankNebulaArtisan
	case totalVotes >= 1:
		return RankMoonWalker
	default:
		return RankSpaceCadet
	}
}
