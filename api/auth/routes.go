package auth

import (
	"github.com/go-chi/chi/v5"
	"github.com/quorumhq/quorum/api/tokens"
)

func SetupRoutes(r *chi.Mux) {

	authRouter := chi.NewRouter()

	handler := Handler{
		Token: tokens.NewTokenService(),
	}

	authRouter.Post("/login", handler.LoginHandler)

	r.Mount("/auth", authRouter)
}
