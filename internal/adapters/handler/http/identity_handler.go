package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/astroarts/contest/internal/adapters/auth"
	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type IdentityHandler struct {
	service ports.IdentityService
	tokens  *auth.DeviceTokens
}

func NewIdentityHandler(service ports.IdentityService, tokens *auth.DeviceTokens) *IdentityHandler {
	return &IdentityHandler{
		service: service,
		tokens:  tokens,
	}
}

type claimRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

type identityResponse struct {
	Token    string   `json:"token"`
	Username string   `json:"username,omitempty"`
	Created  bool     `json:"created,omitempty"`
	VotedFor []string `json:"voted_for"`
}

func (h *IdentityHandler) Claim(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := h.service.Claim(r.Context(), identity, ports.ClaimInput{
		Username: req.Username,
		Secret:   req.Secret,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSecretMismatch) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if errors.Is(err, domain.ErrAlreadyClaimed) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if errors.Is(err, domain.ErrNotAuthorized) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(outcome.Identity)
	if err != nil {
		http.Error(w, "failed to issue identity", http.StatusInternalServerError)
		return
	}

	votedFor := outcome.VotedFor
	if votedFor == nil {
		votedFor = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(identityResponse{
		Token:    token,
		Username: outcome.Identity.Username,
		Created:  outcome.Created,
		VotedFor: votedFor,
	})
}

func (h *IdentityHandler) Detach(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	fresh, err := h.service.Detach(r.Context(), identity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	token, err := h.tokens.Issue(fresh)
	if err != nil {
		http.Error(w, "failed to issue identity", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(identityResponse{
		Token:    token,
		VotedFor: []string{},
	})
}
