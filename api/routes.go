package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/quorumhq/quorum/api/auth"
	"github.com/quorumhq/quorum/api/jsonutil"
	"github.com/quorumhq/quorum/api/reports"
	"github.com/quorumhq/quorum/api/responses"
	"github.com/quorumhq/quorum/api/surveys"
	"github.com/quorumhq/quorum/database"
	"github.com/quorumhq/quorum/queue"
)

func Routes(queries *database.Queries, transactor database.Transactor, q queue.Queue) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/check", func(w http.ResponseWriter, r *http.Request) {

		jsonutil.WriteJSONResponse(w, "hello from quorum", http.StatusOK)
	})

	auth.SetupRoutes(r)
	surveys.SetupRoutes(r, queries, transactor)
	responses.SetupRoutes(r, queries, transactor, q)
	reports.SetupRoutes(r, queries, transactor)

	return r
}
