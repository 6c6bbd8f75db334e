package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	internal "github.com/rbenavente/cargas-api/internal"
	"github.com/rbenavente/cargas-api/internal/transport"
	"github.com/rbenavente/cargas-api/pkg/logger"
)

type ServiceAPI interface {
	ListUnread() ([]*AdminNotification, error)
	MarkRead(id int64) error
	MarkAllRead() (int64, error)
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

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.Service.ListUnread()
	if err != nil {
		h.Logger.Error("ListNotifications: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.Service.MarkRead(id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			h.WriteAppError(w, internal.NewNotFoundError("notificación no encontrada", internal.ErrCodeNotificationNotFound))
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "notificación marcada como leída"})
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	count, err := h.Service.MarkAllRead()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"marked_read": count})
}
