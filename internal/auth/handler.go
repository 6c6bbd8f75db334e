package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	internal "github.com/rbenavente/cargas-api/internal"
	"github.com/rbenavente/cargas-api/internal/transport"
	"github.com/rbenavente/cargas-api/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (SessionToken, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.Service.Authenticate(dto)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.WriteAppError(w, internal.NewUnauthorizedError(err.Error(), internal.ErrCodeInvalidCredentials))
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, token)
}

// RequireAdmin guards the backoffice routes with a Bearer session token.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := h.ExtractTokenFromHeader(r)
		if tokenString == "" {
			h.WriteAppError(w, internal.NewUnauthorizedError("missing bearer token", internal.ErrCodeInvalidToken))
			return
		}

		if _, err := h.Service.ValidateToken(tokenString); err != nil {
			h.WriteAppError(w, internal.NewUnauthorizedError(err.Error(), internal.ErrCodeInvalidToken))
			return
		}

		ctx := internal.ContextWithActor(r.Context(), "admin")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
