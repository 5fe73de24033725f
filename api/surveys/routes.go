package surveys

import (
	"github.com/go-chi/chi/v5"
	"github.com/quorumhq/quorum/api/middlewares"
	"github.com/quorumhq/quorum/api/tokens"
	"github.com/quorumhq/quorum/database"
)

func SetupRoutes(r *chi.Mux, queries *database.Queries, transactor database.Transactor) {

	adminRouter := chi.NewRouter()

	store := NewSurveyStore(queries, transactor)
	tokenService := tokens.NewTokenService()

	handler := Handler{
		Store: store,
	}

	adminRouter.Group(func(r chi.Router) {
		r.Use(middlewares.AdminMiddleware(tokenService))

		// Survey management
		r.Get("/surveys", handler.ListSurveysHandler)
		r.Post("/surveys", handler.CreateSurveyHandler)
		r.Post("/surveys/upload", handler.UploadSurveyHandler)
		r.Get("/surveys/{surveyID}", handler.GetSurveyHandler)
		r.Put("/surveys/{surveyID}", handler.UpdateSurveyHandler)
		r.Post("/surveys/{surveyID}/toggle", handler.ToggleSurveyHandler)
		r.Delete("/surveys/{surveyID}", handler.DeleteSurveyHandler)

		// Results and respondent records
		r.Get("/surveys/{surveyID}/results", handler.GetResultsHandler)
		r.Get("/surveys/{surveyID}/responses", handler.ListResponsesHandler)
		r.Delete("/responses/{responseID}", handler.DeleteResponseHandler)
	})

	r.Mount("/admin", adminRouter)
}
