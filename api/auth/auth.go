// Package auth exposes the single-administrator login. There is no user
// table: the administrator is whoever knows the password whose bcrypt hash
// is configured in the environment.
package auth

import (
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/quorumhq/quorum/api/jsonutil"
	"github.com/quorumhq/quorum/api/tokens"
)

var validate = validator.New()

type Handler struct {
	Token tokens.TokenService
}

func (h *Handler) LoginHandler(responseWriter http.ResponseWriter, request *http.Request) {
	data, err := jsonutil.UnmarshalJsonResponse[LoginBody](request)
	if err != nil {
		response := jsonutil.Response{Status: "error", Message: err.Error()}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusBadRequest)
		return
	}

	if err := validate.Struct(data); err != nil {
		response := jsonutil.Response{Status: "error", Message: "password is required"}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusBadRequest)
		return
	}

	storedHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if storedHash == "" {
		response := jsonutil.Response{Status: "error", Message: "admin login is not configured"}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	match := h.Token.ComparePasswords(storedHash, data.Password)
	if !match {
		response := jsonutil.Response{Status: "error", Message: "invalid credentials"}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusUnauthorized)
		return
	}

	token, err := h.Token.GenerateAdminToken()
	if err != nil {
		response := jsonutil.Response{Status: "error", Message: err.Error()}
		jsonutil.WriteJSONResponse(responseWriter, response, http.StatusInternalServerError)
		return
	}

	response := jsonutil.Response{
		Status:  "success",
		Message: "logged in",
		Data: map[string]interface{}{
			"token":      token,
			"expiration": tokens.AdminTokenExpiration.String(),
		},
	}
	jsonutil.WriteJSONResponse(responseWriter, response, http.StatusOK)
}
