package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/astroarts/contest/internal/adapters/auth"
)

func NewHandler(
	tokens *auth.DeviceTokens,
	identityHandler *IdentityHandler,
	promptHandler *PromptHandler,
	submissionHandler *SubmissionHandler,
	voteHandler *VoteHandler,
	viewHandler *ViewHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(IdentityMiddleware(tokens))

		r.Route("/identity", func(r chi.Router) {
			r.Post("/claim", identityHandler.Claim)
			r.Post("/detach", identityHandler.Detach)
		})

		r.Route("/prompts", func(r chi.Router) {
			r.Get("/", promptHandler.ListPrompts)
			r.Post("/", promptHandler.CreatePrompt)
			r.Get("/{id}", promptHandler.GetPrompt)
			r.Patch("/{id}", promptHandler.UpdatePrompt)
			r.Delete("/{id}", promptHandler.DeletePrompt)
			r.Get("/{id}/winner", viewHandler.GetWinner)
		})

		r.Route("/submissions", func(r chi.Router) {
			r.Get("/", viewHandler.GetGallery)
			r.Post("/", submissionHandler.CreateSubmission)
			r.Get("/{id}", viewHandler.GetSubmission)
			r.Delete("/{id}", submissionHandler.DeleteSubmission)
			r.Post("/{id}/comments", submissionHandler.AddComment)
			r.Post("/{id}/vote", voteHandler.ToggleVote)
		})

		r.Get("/votes", voteHandler.MyVotes)
		r.Get("/banner", viewHandler.GetBanner)
		r.Get("/leaderboard", viewHandler.GetLeaderboard)
	})

	return r
}
