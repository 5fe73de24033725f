package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

type TokenService interface {
	GenerateResumeToken() (string, error)
	ComparePasswords(storedHash, candidatePassword string) bool
	GenerateAdminToken() (string, error)
	DecodeToken(tokenString string) (*Claims, error)
}

type Tokens struct{}

func NewTokenService() *Tokens {
	return &Tokens{}
}

const AdminTokenExpiration = 12 * time.Hour

// GenerateResumeToken returns an opaque, unguessable token. A response keeps
// the token it was born with; holders of the token can resume that response,
// so this is a capability credential, not just an identifier.
func (t *Tokens) GenerateResumeToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating resume token: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (t *Tokens) ComparePasswords(storedHash, candidatePassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidatePassword))

	return err == nil
}

type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

func (t *Tokens) GenerateAdminToken() (string, error) {
	key := os.Getenv("SECRET_KEY")
	if key == "" {
		return "", errors.New("no secret key found")
	}
	secretKey := []byte(key)

	claims := &Claims{
		Role: "admin",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(AdminTokenExpiration).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("error signing admin token: %v", err)
	}

	return signedToken, nil
}

func (t *Tokens) DecodeToken(tokenString string) (*Claims, error) {
	key := os.Getenv("SECRET_KEY")
	if key == "" {
		return nil, errors.New("no secret key found")
	}
	secretKey := []byte(key)

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			if ve.Errors&jwt.ValidationErrorExpired != 0 {
				return nil, errors.New("token has expired")
			}
			if ve.Errors&jwt.ValidationErrorSignatureInvalid != 0 {
				return nil, errors.New("invalid token signature")
			}
			if ve.Errors&jwt.ValidationErrorMalformed != 0 {
				return nil, errors.New("malformed token")
			}
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	return claims, nil
}
