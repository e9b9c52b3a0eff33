package domain

import (
	"time"

	"github.com/google/uuid"
)

type Submission struct {
	ID         uuid.UUID `json:"id"`
	PromptID   uuid.UUID `json:"prompt_id"`
	Title      string    `json:"title"`
	ImageURL   string    `json:"image_url"`
	ArtistName string    `json:"artist_name"`
	Votes      int       `json:"votes"`
	Comments   []Comment `json:"comments"`
	AuthorID   string    `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type Comment struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// GuestVoteRecord is the device-scoped vote set used before a username is
// claimed. After a successful claim it is abandoned, never deleted.
type GuestVoteRecord struct {
	DeviceID string   `json:"device_id"`
	VotedFor []string `json:"voted_for"`
}

// RegistryEntry is the durable, globally unique record binding a lowercase
// username to its secret and accumulated votes.
type RegistryEntry struct {
	Name         string    `json:"name"`
	SecretPhrase string    `json:"-"`
	CreatedBy    string    `json:"created_by"`
	VotedFor     []string  `json:"voted_for"`
	CreatedAt    time.Time `json:"created_at"`
}
