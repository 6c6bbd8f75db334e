package batch

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	internal "github.com/rbenavente/cargas-api/internal"
	"github.com/rbenavente/cargas-api/internal/registration"
	"github.com/rbenavente/cargas-api/internal/transport"
	"github.com/rbenavente/cargas-api/pkg/logger"
)

type ServiceAPI interface {
	ListPending() ([]*registration.Registration, []*LateAddition, error)
	ExportPending(path string) error
	ExportAll(path string) error
	SendToInsurer() (*SendResult, error)
	ResetSubmissionState() int64
}

type Handler struct {
	*transport.BaseHandler
	Service    ServiceAPI
	ExportsDir string
}

func NewHandler(service ServiceAPI, exportsDir string) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
		ExportsDir:  exportsDir,
	}
}

// ListPending returns the registrations awaiting submission plus the
// late-added dependents of already-submitted ones. With ?format=xlsx the
// preview file is streamed instead, without touching any flag.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "xlsx" {
		h.downloadExport(w, r, "pendientes", h.Service.ExportPending)
		return
	}

	pending, late, err := h.Service.ListPending()
	if err != nil {
		h.Logger.Error("ListPending: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list pending registrations")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pending_registrations": pending,
		"late_additions":        late,
	})
}

// ExportAll streams the full admin download with every active
// registration.
func (h *Handler) ExportAll(w http.ResponseWriter, r *http.Request) {
	h.downloadExport(w, r, "registros", h.Service.ExportAll)
}

// SendBatch runs the export-then-confirm submission to the insurer.
func (h *Handler) SendBatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.SendToInsurer()
	if err != nil {
		switch {
		case errors.Is(err, ErrNothingPending):
			h.WriteAppError(w, internal.NewConflictError(ErrNothingPending.Error(), internal.ErrCodeNothingPending))
		default:
			h.WriteAppError(w, internal.NewExternalError(
				"no se pudo enviar el lote a la aseguradora", internal.ErrCodeMailFailed, err))
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// ResetSubmission clears all submission flags. Testing utility, never
// wired in production deployments.
func (h *Handler) ResetSubmission(w http.ResponseWriter, r *http.Request) {
	count := h.Service.ResetSubmissionState()
	if count < 0 {
		h.WriteError(w, http.StatusInternalServerError, "failed to reset submission state")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"registrations_reset": count})
}

func (h *Handler) downloadExport(w http.ResponseWriter, r *http.Request, prefix string, export func(string) error) {
	name := ExportFileName(prefix, time.Now())
	path := filepath.Join(h.ExportsDir, name)

	if err := export(path); err != nil {
		if errors.Is(err, ErrNothingPending) {
			h.WriteAppError(w, internal.NewConflictError(err.Error(), internal.ErrCodeNothingPending))
			return
		}
		h.Logger.Error("export failed", "error", err, "file", name)
		h.WriteAppError(w, internal.NewExternalError("no se pudo generar el archivo", internal.ErrCodeExportFailed, err))
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}
