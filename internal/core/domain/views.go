package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the latest raw state a session derives its views from. It is
// replaced wholesale on every change notification; derived views are pure
// functions over it.
type Snapshot struct {
	Prompts     []*Prompt
	Submissions []*Submission
	VotedFor    []string
	Identity    Identity
}

// Voted reports whether the active identity has a live vote on the artwork.
func (s Snapshot) Voted(artworkID string) bool {
	for _, id := range s.VotedFor {
		if id == artworkID {
			return true
		}
	}
	return false
}

type LeaderboardRow struct {
	Name       string `json:"name"`
	TotalVotes int    `json:"total_votes"`
	Entries    int    `json:"entries"`
	Rank       string `json:"rank"`
}

// SubmissionView is a submission as a consumer may see it. While the owning
// prompt is open, votes and artist names are masked for everyone except the
// submission's author and the admin.
type SubmissionView struct {
	ID          uuid.UUID `json:"id"`
	PromptID    uuid.UUID `json:"prompt_id"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"image_url"`
	ArtistName  string    `json:"artist_name"`
	Votes       int       `json:"votes"`
	VotesHidden bool      `json:"votes_hidden"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}
