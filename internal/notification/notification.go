package notification

import (
	"errors"
	"time"

	notificationDatamodel "github.com/rbenavente/cargas-api/internal/core/datamodel/notification"
)

// Notification kinds are persisted uppercase Spanish; the admin frontend
// filters on these literals.
const (
	KindDependentRemoved      = "ELIMINACION_CARGA"
	KindRegistrationCancelled = "BAJA_SEGURO"
)

var ErrNotificationNotFound = errors.New("notification not found")

// AdminNotification is one entry of the admin change feed. It records
// worker-initiated removals and cancellations, never additions: the
// insurer learns about additions through the batch export instead.
type AdminNotification struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"kind"`
	EmployeeRUT  string    `json:"employee_rut"`
	EmployeeName string    `json:"employee_name"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	Read         bool      `json:"read"`
}

func FromDataModel(n *notificationDatamodel.AdminNotification) *AdminNotification {
	return &AdminNotification{
		ID:           n.ID,
		Kind:         n.Kind,
		EmployeeRUT:  n.EmployeeRUT,
		EmployeeName: n.EmployeeName,
		Description:  n.Description,
		CreatedAt:    n.CreatedAt,
		Read:         n.Read,
	}
}

func FromDataModelSlice(rows []*notificationDatamodel.AdminNotification) []*AdminNotification {
	result := make([]*AdminNotification, len(rows))
	for i, n := range rows {
		result[i] = FromDataModel(n)
	}
	return result
}
