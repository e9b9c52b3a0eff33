package ports

import (
	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
)

// ViewEngine derives every read model from a raw snapshot. All methods are
// pure over their snapshot argument; a submission whose prompt is gone is
// excluded everywhere, never deleted.
type ViewEngine interface {
	ValidSubmissions(snap domain.Snapshot) []*domain.Submission
	// VotesUsed counts the active identity's votes on the prompt's own
	// submissions.
	VotesUsed(snap domain.Snapshot, promptID uuid.UUID) int
	// ActiveVoteCount counts the identity's votes that still resolve to a
	// valid submission. Stale IDs are excluded, not cleaned up.
	ActiveVoteCount(snap domain.Snapshot) int
	// Winner is defined only once the prompt's deadline has passed; ties
	// keep input order.
	Winner(snap domain.Snapshot, promptID uuid.UUID) *domain.Submission
	// BannerArtwork is the most recently created valid submission,
	// regardless of prompt status.
	BannerArtwork(snap domain.Snapshot) *domain.Submission
	Leaderboard(snap domain.Snapshot) []domain.LeaderboardRow
	// Project applies the visibility mask: while the owning prompt is
	// open, votes and artist are hidden from everyone except the author
	// and the admin.
	Project(snap domain.Snapshot, submission *domain.Submission) domain.SubmissionView
}
