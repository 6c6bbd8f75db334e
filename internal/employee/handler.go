package employee

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	internal "github.com/rbenavente/cargas-api/internal"
	"github.com/rbenavente/cargas-api/internal/rut"
	"github.com/rbenavente/cargas-api/internal/transport"
	"github.com/rbenavente/cargas-api/pkg/logger"
)

type ServiceAPI interface {
	AddEmployee(dto CreateEmployeeDTO) (*Employee, error)
	FindByRUT(rawRUT string) (*Employee, error)
	ListEmployees() ([]*Employee, error)
	BulkImport(rows []ImportRow) ImportResult
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ValidateWorker backs the first step of the registration form: validate
// the RUT and check the worker belongs to the company.
func (h *Handler) ValidateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RUT string `json:"rut"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := rut.Validate(req.RUT); err != nil {
		h.WriteAppError(w, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidRUT))
		return
	}

	emp, err := h.Service.FindByRUT(req.RUT)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			h.WriteAppError(w, internal.NewNotFoundError(
				"el RUT no corresponde a un empleado de la empresa", internal.ErrCodeEmployeeNotFound))
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"rut":      rut.FormatDisplay(emp.RUT),
		"name":     emp.Name,
		"email":    emp.Email,
		"is_valid": true,
	})
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.AddEmployee(dto)
	if err != nil {
		if errors.Is(err, ErrEmployeeExists) {
			h.WriteAppError(w, internal.NewConflictError("el empleado ya existe", internal.ErrCodeEmployeeExists))
			return
		}
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateEmployee: employee created", "rut", emp.RUT)
	h.WriteJSON(w, http.StatusCreated, emp)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees()
	if err != nil {
		h.Logger.Error("ListEmployees: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"employees": employees})
}

// ImportEmployees accepts a multipart form with an xlsx file under "file".
func (h *Handler) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	rows, err := ReadImportFile(file)
	if err != nil {
		h.Logger.Warn("ImportEmployees: unreadable spreadsheet", "error", err)
		h.WriteAppError(w, internal.NewValidationError(err.Error(), internal.ErrCodeImportFailed))
		return
	}

	result := h.Service.BulkImport(rows)
	h.WriteJSON(w, http.StatusOK, result)
}

// GetEmployee is used by admin tooling to inspect a single directory row.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	rawRUT := chi.URLParam(r, "rut")
	emp, err := h.Service.FindByRUT(rawRUT)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			h.WriteAppError(w, internal.NewNotFoundError("empleado no encontrado", internal.ErrCodeEmployeeNotFound))
			return
		}
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, emp)
}
