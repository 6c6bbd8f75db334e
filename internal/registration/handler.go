package registration

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	internal "github.com/rbenavente/cargas-api/internal"
	"github.com/rbenavente/cargas-api/internal/transport"
	"github.com/rbenavente/cargas-api/pkg/logger"
)

type ServiceAPI interface {
	CreateRegistration(dto CreateRegistrationDTO) (*Registration, error)
	AddDependent(registrationID int64, dto AddDependentDTO) (*Dependent, error)
	GetRegistration(id int64) (*Registration, error)
	GetActiveByRUT(rawRUT string) (*Registration, error)
	ListRegistrations() ([]*Registration, error)
	RemoveDependent(dependentID int64) error
	DeactivateRegistration(registrationID int64, reason string) error
	Statistics() (*Statistics, error)
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

func (h *Handler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var dto CreateRegistrationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reg, err := h.Service.CreateRegistration(dto)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, reg)
}

func (h *Handler) AddDependent(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var dto AddDependentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dep, err := h.Service.AddDependent(registrationID, dto)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, dep)
}

// GetWorkerRegistration serves the self-service portal: the worker's
// active registration with active dependents only.
func (h *Handler) GetWorkerRegistration(w http.ResponseWriter, r *http.Request) {
	rawRUT := chi.URLParam(r, "rut")

	reg, err := h.Service.GetActiveByRUT(rawRUT)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	reg, err := h.Service.GetRegistration(id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	registrations, err := h.Service.ListRegistrations()
	if err != nil {
		h.Logger.Error("ListRegistrations: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list registrations")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"registrations": registrations})
}

func (h *Handler) RemoveDependent(w http.ResponseWriter, r *http.Request) {
	dependentID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Service.RemoveDependent(dependentID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "carga eliminada"})
}

func (h *Handler) DeactivateRegistration(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var dto DeactivateRegistrationDTO
	if r.Body != nil {
		// body is optional; a bare POST cancels with the default reason
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	if err := h.Service.DeactivateRegistration(registrationID, dto.Reason); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "seguro dado de baja"})
}

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Statistics()
	if err != nil {
		h.Logger.Error("GetStatistics: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRegistrationNotFound):
		h.WriteAppError(w, internal.NewNotFoundError("registro no encontrado", internal.ErrCodeRegistrationNotFound))
	case errors.Is(err, ErrDependentNotFound):
		h.WriteAppError(w, internal.NewNotFoundError("carga no encontrada", internal.ErrCodeDependentNotFound))
	case errors.Is(err, ErrRegistrationInactive):
		h.WriteAppError(w, internal.NewConflictError("el registro ya no está activo", internal.ErrCodeRegistrationInactive))
	case errors.Is(err, ErrActiveRegistrationExists):
		h.WriteAppError(w, internal.NewConflictError("ya existe un registro activo para este RUT", internal.ErrCodeRegistrationExists))
	case errors.Is(err, ErrDependentExists):
		h.WriteAppError(w, internal.NewConflictError("ya existe una carga con este RUT en el registro", internal.ErrCodeDependentExists))
	default:
		h.HandleServiceError(w, err)
	}
}
