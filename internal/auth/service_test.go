package auth_test

import (
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rbenavente/cargas-api/internal/auth"
)

var _ = Describe("AuthService", func() {
	var service *auth.Service

	newService := func(password string, ttl time.Duration) *auth.Service {
		hash, err := auth.HashPassword(password)
		Expect(err).ToNot(HaveOccurred())
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		return auth.NewService(hash, "una-clave-de-sesion-suficientemente-larga", ttl, logger)
	}

	BeforeEach(func() {
		service = newService("secreto123", time.Hour)
	})

	Describe("Authenticate", func() {
		It("should issue a bearer token for the right password", func() {
			token, err := service.Authenticate(auth.LoginDTO{Password: "secreto123"})

			Expect(err).ToNot(HaveOccurred())
			Expect(token.AccessToken).ToNot(BeEmpty())
			Expect(token.TokenType).To(Equal("Bearer"))
			Expect(token.ExpiresIn).To(Equal(int64(3600)))
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Password: "otra"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an empty password before touching bcrypt", func() {
			_, err := service.Authenticate(auth.LoginDTO{Password: ""})
			Expect(err).To(HaveOccurred())
			Expect(err).ToNot(Equal(auth.ErrInvalidCredentials))
		})
	})

	Describe("ValidateToken", func() {
		It("should accept a token the service itself issued", func() {
			token, err := service.Authenticate(auth.LoginDTO{Password: "secreto123"})
			Expect(err).ToNot(HaveOccurred())

			claims, err := service.ValidateToken(token.AccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.Role).To(Equal("admin"))
		})

		It("should reject garbage", func() {
			_, err := service.ValidateToken("no-es-un-jwt")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("should reject a token signed with a different secret", func() {
			hash, err := auth.HashPassword("secreto123")
			Expect(err).ToNot(HaveOccurred())
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			other := auth.NewService(hash, "otro-secreto-completamente-distinto", time.Hour, logger)

			token, err := other.Authenticate(auth.LoginDTO{Password: "secreto123"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.ValidateToken(token.AccessToken)
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("should report an expired token as expired", func() {
			expired := newService("secreto123", -time.Minute)

			token, err := expired.Authenticate(auth.LoginDTO{Password: "secreto123"})
			Expect(err).ToNot(HaveOccurred())

			_, err = expired.ValidateToken(token.AccessToken)
			Expect(err).To(Equal(auth.ErrTokenExpired))
		})
	})
})
