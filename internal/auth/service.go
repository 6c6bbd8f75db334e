package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminRole = "admin"

// Service authenticates the shared backoffice admin account and issues
// short-lived HS256 session tokens.
type Service struct {
	passwordHash  string
	sessionSecret []byte
	sessionTTL    time.Duration
	logger        *slog.Logger
}

func NewService(passwordHash, sessionSecret string, sessionTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		passwordHash:  passwordHash,
		sessionSecret: []byte(sessionSecret),
		sessionTTL:    sessionTTL,
		logger:        logger,
	}
}

// HashPassword is used by tooling that provisions the admin credential.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate checks the admin password and returns a session token.
func (s *Service) Authenticate(dto LoginDTO) (SessionToken, error) {
	if err := dto.Validate(); err != nil {
		return SessionToken{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("admin login rejected")
		return SessionToken{}, ErrInvalidCredentials
	}

	token, err := s.generateToken()
	if err != nil {
		return SessionToken{}, err
	}

	s.logger.Info("admin session issued", "ttl", s.sessionTTL.String())
	return SessionToken{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.sessionTTL.Seconds()),
	}, nil
}

func (s *Service) generateToken() (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminRole,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.sessionSecret)
}

// ValidateToken parses and verifies a session token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.sessionSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != adminRole {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
