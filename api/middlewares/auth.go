package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/quorumhq/quorum/api/jsonutil"
	"github.com/quorumhq/quorum/api/tokens"
)

// AuthContext is the explicit authentication state for a request. Handlers
// receive it through the request context instead of consulting any global
// session flag.
type AuthContext struct {
	Admin bool
	Role  string
}

type authContextKey struct{}

// FromRequest returns the request's auth context. Requests that never went
// through an auth middleware get the anonymous zero value.
func FromRequest(request *http.Request) AuthContext {
	if authCtx, ok := request.Context().Value(authContextKey{}).(AuthContext); ok {
		return authCtx
	}
	return AuthContext{}
}

func decodeBearer(request *http.Request, tokenService tokens.TokenService) (*tokens.Claims, bool) {
	authHeader := request.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := tokenService.DecodeToken(parts[1])
	if err != nil {
		return nil, false
	}

	return claims, true
}

// AdminMiddleware rejects requests without a valid admin token.
func AdminMiddleware(tokenService tokens.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			claims, ok := decodeBearer(request, tokenService)
			if !ok {
				response := jsonutil.Response{
					Status:  "error",
					Message: "invalid or missing token",
				}
				jsonutil.WriteJSONResponse(responseWriter, response, http.StatusUnauthorized)
				return
			}

			if claims.Role != "admin" {
				response := jsonutil.Response{
					Status:  "error",
					Message: "admin access required",
				}
				jsonutil.WriteJSONResponse(responseWriter, response, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(request.Context(), authContextKey{}, AuthContext{Admin: true, Role: claims.Role})
			next.ServeHTTP(responseWriter, request.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware attaches an auth context when a valid token is
// present but lets anonymous requests through. Respondent routes use this so
// admins can preview inactive surveys.
func OptionalAuthMiddleware(tokenService tokens.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			claims, ok := decodeBearer(request, tokenService)
			if !ok {
				next.ServeHTTP(responseWriter, request)
				return
			}

			authCtx := AuthContext{Admin: claims.Role == "admin", Role: claims.Role}
			ctx := context.WithValue(request.Context(), authContextKey{}, authCtx)
			next.ServeHTTP(responseWriter, request.WithContext(ctx))
		})
	}
}
