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

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type toggleVoteResponse struct {
	Delta    int      `json:"delta"`
	VotedFor []string `json:"voted_for"`
}

func (h *VoteHandler) ToggleVote(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	artworkID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid submission id", http.StatusBadRequest)
		return
	}

	delta, err := h.service.Toggle(r.Context(), identity, artworkID)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) || errors.Is(err, domain.ErrPromptNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrVoteCapExceeded) || errors.Is(err, domain.ErrVotingClosed) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	votedFor, err := h.service.VotedFor(r.Context(), identity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if votedFor == nil {
		votedFor = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toggleVoteResponse{
		Delta:    int(delta),
		VotedFor: votedFor,
	})
}

func (h *VoteHandler) MyVotes(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	votedFor, err := h.service.VotedFor(r.Context(), identity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if votedFor == nil {
		votedFor = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(votedFor)
}
