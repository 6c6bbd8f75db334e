package employee

import "time"

// Employee is a row in the company directory used to gate registrations.
// RUTs are stored canonical (no separators, uppercase).
type Employee struct {
	ID        int64     `gorm:"primaryKey"`
	RUT       string    `gorm:"column:rut;uniqueIndex;not null"`
	Name      string    `gorm:"column:name;not null"`
	Email     *string   `gorm:"column:email"`
	Active    bool      `gorm:"column:active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
