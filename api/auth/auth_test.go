package auth_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quorumhq/quorum/api/auth"
	"github.com/quorumhq/quorum/api/tokens"
)

// ============================================================================
// Test Helpers
// ============================================================================

func assertResponseCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("response code = %d, want %d", got, want)
	}
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("error decoding response body: %v", err)
	}
	return body
}

// ============================================================================
// Stubs
// ============================================================================

type StubTokenService struct {
	ShouldFailToken bool
}

func (s *StubTokenService) GenerateResumeToken() (string, error) {
	return "resume-token", nil
}

func (s *StubTokenService) ComparePasswords(storedHash, candidatePassword string) bool {
	return storedHash == "hash:"+candidatePassword
}

func (s *StubTokenService) GenerateAdminToken() (string, error) {
	if s.ShouldFailToken {
		return "", errors.New("failed to generate token")
	}
	return "mock-jwt-token", nil
}

func (s *StubTokenService) DecodeToken(tokenString string) (*tokens.Claims, error) {
	return nil, errors.New("not implemented")
}

func loginRequest(t *testing.T, password string) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		t.Fatalf("error marshaling body: %v", err)
	}
	return httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
}

// ============================================================================
// Tests
// ============================================================================

func TestLoginHandler(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "hash:correct-horse")

	handler := auth.Handler{Token: &StubTokenService{}}

	recorder := httptest.NewRecorder()
	handler.LoginHandler(recorder, loginRequest(t, "correct-horse"))

	assertResponseCode(t, recorder.Code, http.StatusOK)

	body := decodeBody(t, recorder)
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("data missing from response: %v", body)
	}
	if data["token"] != "mock-jwt-token" {
		t.Errorf("token = %v, want mock-jwt-token", data["token"])
	}
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "hash:correct-horse")

	handler := auth.Handler{Token: &StubTokenService{}}

	recorder := httptest.NewRecorder()
	handler.LoginHandler(recorder, loginRequest(t, "battery-staple"))

	assertResponseCode(t, recorder.Code, http.StatusUnauthorized)
}

func TestLoginHandlerMissingPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "hash:correct-horse")

	handler := auth.Handler{Token: &StubTokenService{}}

	recorder := httptest.NewRecorder()
	handler.LoginHandler(recorder, loginRequest(t, ""))

	assertResponseCode(t, recorder.Code, http.StatusBadRequest)
}

func TestLoginHandlerNotConfigured(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	handler := auth.Handler{Token: &StubTokenService{}}

	recorder := httptest.NewRecorder()
	handler.LoginHandler(recorder, loginRequest(t, "anything"))

	assertResponseCode(t, recorder.Code, http.StatusInternalServerError)
}

func TestLoginHandlerTokenFailure(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "hash:correct-horse")

	handler := auth.Handler{Token: &StubTokenService{ShouldFailToken: true}}

	recorder := httptest.NewRecorder()
	handler.LoginHandler(recorder, loginRequest(t, "correct-horse"))

	assertResponseCode(t, recorder.Code, http.StatusInternalServerError)
}
