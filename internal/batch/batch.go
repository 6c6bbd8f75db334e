package batch

import (
	"errors"

	"github.com/rbenavente/cargas-api/internal/registration"
)

// Domain errors
var (
	ErrNothingPending = errors.New("no hay registros pendientes de envío")
	ErrResetFailed    = errors.New("failed to reset submission state")
)

// LateAddition is a dependent added to a registration after that
// registration was already reported to the insurer. These are the rows a
// prior batch missed and the next one must carry.
type LateAddition struct {
	Dependent    *registration.Dependent `json:"dependent"`
	EmployeeRUT  string                  `json:"employee_rut"`
	EmployeeName string                  `json:"employee_name"`
}

// SendResult summarizes one completed batch submission.
type SendResult struct {
	BatchID             string `json:"batch_id"`
	RegistrationsMarked int64  `json:"registrations_marked"`
	DependentsMarked    int64  `json:"dependents_marked"`
	ExportPath          string `json:"export_path"`
}
