package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/astroarts/contest/internal/core/domain"
	"github.com/astroarts/contest/internal/core/ports"
)

type PromptHandler struct {
	service ports.PromptService
}

func NewPromptHandler(service ports.PromptService) *PromptHandler {
	return &PromptHandler{
		service: service,
	}
}

type createPromptRequest struct {
	Title    string     `json:"title"`
	ImageURL string     `json:"image_url"`
	Password string     `json:"password"`
	Deadline *time.Time `json:"deadline"`
	MaxVotes int        `json:"max_votes"`
}

type updatePromptRequest struct {
	Deadline *time.Time `json:"deadline"`
	MaxVotes int        `json:"max_votes"`
}

func (h *PromptHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req createPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	prompt, err := h.service.Create(r.Context(), identity, ports.CreatePromptInput{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		Password: req.Password,
		Deadline: req.Deadline,
		MaxVotes: req.MaxVotes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthorized) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(prompt)
}

func (h *PromptHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid prompt id", http.StatusBadRequest)
		return
	}

	prompt, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPromptNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prompt)
}

func (h *PromptHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if prompts == nil {
		prompts = []*domain.Prompt{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prompts)
}

func (h *PromptHandler) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid prompt id", http.StatusBadRequest)
		return
	}

	var req updatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err = h.service.Update(r.Context(), identity, id, ports.UpdatePromptInput{
		Deadline: req.Deadline,
		MaxVotes: req.MaxVotes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPromptNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrNotAuthorized) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PromptHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	identity, ok := requestIdentity(r)
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid prompt id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), identity, id); err != nil {
		if errors.Is(err, domain.ErrPromptNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrNotAuthorized) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
