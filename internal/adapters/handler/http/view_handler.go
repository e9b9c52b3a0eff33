package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

// ViewHandler serves the derived read models. Every request assembles a
// fresh snapshot and projects it through the view engine, so the visibility
// mask is applied per viewer.
type ViewHandler struct {
	prompts     ports.PromptService
	submissions ports.SubmissionService
	votes       ports.VoteService
	views       ports.ViewEngine
}

func NewViewHandler(prompts ports.PromptService, submissions ports.SubmissionService, votes ports.VoteService, views ports.ViewEngine) *ViewHandler {
	return &ViewHandler{
		prompts:     prompts,
		submissions: submissions,
		votes:       votes,
		views:       views,
	}
}

func (h *ViewHandler) snapshot(r *http.Request, identity domain.Identity) (domain.Snapshot, error) {
	prompts, err := h.prompts.List(r.Context())
	if err != nil {
		return domain.Snapshot{}, err
	}
	submissions, err := h.submissions.List(r.Context())
	if err != nil {
		return domain.Snapshot{}, err
	}
	votedFor, err := h.votes.VotedFor(r.Context(), identity)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{
		Prompts:     prompts,
		Submissions: submissions,
		VotedFor:    votedFor,
		Identity:    identity,
	}, nil
}

func (h *ViewHandler) GetGallery(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	snap, err := h.snapshot(r, identity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	valid := h.views.ValidSubmissions(snap)
	gallery := make([]domain.SubmissionView, 0, len(valid))
	for _, submission := range valid {
		gallery = append(gallery, h.views.Project(snap, submission))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gallery)
}

func (h *ViewHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid submission id", http.StatusBadRequest)
		return
	}

	submission, err := h.submissions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	snap, err := h.snapshot(r, identity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.views.Project(snap, submission))
}

func (h *ViewHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	promptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid prompt id", http.StatusBadRequest)
		return
	}

	snap, err := h.snapshot(r, identity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	winner := h.views.Winner(snap, promptID)
	if winner == nil {
		http.Error(w, "no winner yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.views.Project(snap, winner))
}

func (h *ViewHandler) GetBanner(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	snap, err := h.snapshot(r, identity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	banner := h.views.BannerArtwork(snap)
	if banner == nil {
		http.Error(w, "no artwork yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.views.Project(snap, banner))
}

func (h *ViewHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	snap, err := h.snapshot(r, identity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rows := h.views.Leaderboard(snap)
	if rows == nil {
		rows = []domain.LeaderboardRow{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}
