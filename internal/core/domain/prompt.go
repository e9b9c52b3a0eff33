package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxVotes is applied when a prompt is created without a usable cap.
const DefaultMaxVotes = 2

type Prompt struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	ImageURL    string     `json:"image_url"`
	Password    string     `json:"-"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	MaxVotes    int        `json:"max_votes"`
	CreatorName string     `json:"creator_name"`
	AuthorID    string     `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Expired reports whether the prompt's deadline has passed. Prompts without
// a deadline never expire.
func (p *Prompt) Expired(now time.Time) bool {
	return p.Deadline != nil && now.After(*p.Deadline)
}

// EditableBy reports whether the identity may update or delete the prompt.
func (p *Prompt) EditableBy(identity Identity) bool {
	return identity.IsAdmin() || p.AuthorID == identity.DeviceID
}
