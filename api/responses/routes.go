package responses

import (
	"github.com/go-chi/chi/v5"
	"github.com/quorumhq/quorum/api/middlewares"
	"github.com/quorumhq/quorum/api/tokens"
	"github.com/quorumhq/quorum/database"
	"github.com/quorumhq/quorum/queue"
)

func SetupRoutes(r *chi.Mux, queries *database.Queries, transactor database.Transactor, q queue.Queue) {

	surveyRouter := chi.NewRouter()

	store := NewResponseStore(queries, transactor)
	tokenService := tokens.NewTokenService()

	workflow := &Workflow{
		Store:  store,
		Tokens: tokenService,
		Queue:  q,
	}

	handler := Handler{
		Workflow: workflow,
	}

	// Respondent routes are public; the optional auth middleware lets
	// admins preview inactive surveys.
	surveyRouter.Group(func(r chi.Router) {
		r.Use(middlewares.OptionalAuthMiddleware(tokenService))

		r.Get("/{surveyID}", handler.EntryHandler)
		r.Get("/{surveyID}/sections/{sectionNum}", handler.GetSectionHandler)
		r.Post("/{surveyID}/sections/{sectionNum}", handler.SaveSectionHandler)
	})

	r.Mount("/surveys", surveyRouter)
}
