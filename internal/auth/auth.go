package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	internal "github.com/rbenavente/cargas-api/internal"
)

var (
	ErrInvalidCredentials = errors.New("contraseña de administrador incorrecta")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

// Claims are the session claims carried by admin tokens. The backoffice
// has a single shared admin identity, so the subject is a fixed role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type LoginDTO struct {
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if strings.TrimSpace(dto.Password) == "" {
		return internal.NewValidationError("la contraseña no puede estar vacía", internal.ErrCodeInvalidCredentials)
	}
	return nil
}

type SessionToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
