package reports

import (
	"github.com/go-chi/chi/v5"
	"github.com/quorumhq/quorum/api/middlewares"
	"github.com/quorumhq/quorum/api/surveys"
	"github.com/quorumhq/quorum/api/tokens"
	"github.com/quorumhq/quorum/database"
)

func SetupRoutes(r *chi.Mux, queries *database.Queries, transactor database.Transactor) {

	exportRouter := chi.NewRouter()

	store := surveys.NewSurveyStore(queries, transactor)
	tokenService := tokens.NewTokenService()

	handler := Handler{
		Store: store,
	}

	exportRouter.Group(func(r chi.Router) {
		r.Use(middlewares.AdminMiddleware(tokenService))

		r.Get("/surveys/{surveyID}/xlsx", handler.ExportXLSXHandler)
		r.Get("/surveys/{surveyID}/csv", handler.ExportCSVHandler)
	})

	r.Mount("/exports", exportRouter)
}
