package notification

import "time"

// AdminNotification is the audit-trail row appended when a worker removes
// a dependent or cancels their registration.
type AdminNotification struct {
	ID           int64     `gorm:"primaryKey"`
	Kind         string    `gorm:"column:kind;not null"`
	EmployeeRUT  string    `gorm:"column:employee_rut;not null"`
	EmployeeName string    `gorm:"column:employee_name;not null"`
	Description  string    `gorm:"column:description;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	Read         bool      `gorm:"column:read;default:false"`
}

func (AdminNotification) TableName() string {
	return "admin_notifications"
}
