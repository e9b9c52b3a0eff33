package services

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type viewService struct {
	now func() time.Time
}

func NewViewEngine() ports.ViewEngine {
	return &viewService{now: time.Now}
}

func (s *viewService) ValidSubmissions(snap domain.Snapshot) []*domain.Submission {
	known := make(map[uuid.UUID]struct{}, len(snap.Prompts))
	for _, p := range snap.Prompts {
		known[p.ID] = struct{}{}
	}

	valid := make([]*domain.Submission, 0, len(snap.Submissions))
	for _, sub := range snap.Submissions {
		if _, ok := known[sub.PromptID]; ok {
			valid = append(valid, sub)
		}
	}
	return valid
}

func (s *viewService) VotesUsed(snap domain.Snapshot, promptID uuid.UUID) int {
	ids := make(map[string]struct{})
	for _, sub := range s.ValidSubmissions(snap) {
		if sub.PromptID == promptID {
			ids[sub.ID.String()] = struct{}{}
		}
	}

	used := 0
	for _, id := range snap.VotedFor {
		if _, ok := ids[id]; ok {
			used++
		}
	}
	return used
}

func (s *viewService) ActiveVoteCount(snap domain.Snapshot) int {
	valid := make(map[string]struct{})
	for _, sub := range s.ValidSubmissions(snap) {
		valid[sub.ID.String()] = struct{}{}
	}

	count := 0
	for _, id := range snap.VotedFor {
		if _, ok := valid[id]; ok {
			count++
		}
	}
	return count
}

func (s *viewService) Winner(snap domain.Snapshot, promptID uuid.UUID) *domain.Submission {
	prompt := findPrompt(snap.Prompts, promptID)
	if prompt == nil || !prompt.Expired(s.now()) {
		return nil
	}

	var winner *domain.Submission
	for _, sub := range s.ValidSubmissions(snap) {
		if sub.PromptID != promptID {
			continue
		}
		// Strict > keeps the first-encountered submission on ties.
		if winner == nil || sub.Votes > winner.Votes {
			winner = sub
		}
	}
	return winner
}

func (s *viewService) BannerArtwork(snap domain.Snapshot) *domain.Submission {
	var latest *domain.Submission
	for _, sub := range s.ValidSubmissions(snap) {
		if latest == nil || sub.CreatedAt.After(latest.CreatedAt) {
			latest = sub
		}
	}
	return latest
}

func (s *viewService) Leaderboard(snap domain.Snapshot) []domain.LeaderboardRow {
	index := make(map[string]int)
	rows := make([]domain.LeaderboardRow, 0)

	for _, sub := range s.ValidSubmissions(snap) {
		name := sub.ArtistName
		if name == "" || name == domain.AnonymousName {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(rows)
			index[name] = i
			rows = append(rows, domain.LeaderboardRow{Name: name})
		}
		rows[i].TotalVotes += sub.Votes
		rows[i].Entries++
	}

	// Stable keeps aggregation order for equal totals.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalVotes > rows[j].TotalVotes
	})
	for i := range rows {
		rows[i].Rank = domain.Rank(rows[i].TotalVotes)
	}
	return rows
}

func (s *viewService) Project(snap domain.Snapshot, submission *domain.Submission) domain.SubmissionView {
	view := domain.SubmissionView{
		ID:         submission.ID,
		PromptID:   submission.PromptID,
		Title:      submission.Title,
		ImageURL:   submission.ImageURL,
		ArtistName: submission.ArtistName,
		Votes:      submission.Votes,
		Comments:   submission.Comments,
		CreatedAt:  submission.CreatedAt,
	}

	prompt := findPrompt(snap.Prompts, submission.PromptID)
	open := prompt != nil && !prompt.Expired(s.now())
	if !open {
		return view
	}

	viewer := snap.Identity
	if viewer.IsAdmin() || viewer.DeviceID == submission.AuthorID {
		return view
	}

	view.ArtistName = domain.AnonymousName
	view.Votes = 0
	view.VotesHidden = true
	masked := make([]domain.Comment, len(submission.Comments))
	for i, c := range submission.Comments {
		c.AuthorName = domain.AnonymousName
		masked[i] = c
	}
	view.Comments = masked
	return view
}

func findPrompt(prompts []*domain.Prompt, id uuid.UUID) *domain.Prompt {
	for _, p := range prompts {
		if p.ID == id {
			return p
		}
	}
	return nil
}
