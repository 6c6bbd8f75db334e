package registration

import "time"

type Registration struct {
	ID                    int64      `gorm:"primaryKey"`
	EmployeeRUT           string     `gorm:"column:employee_rut;not null;index"`
	EmployeeName          string     `gorm:"column:employee_name;not null"`
	Email                 string     `gorm:"column:email;not null"`
	BankName              *string    `gorm:"column:bank_name"`
	AccountType           *string    `gorm:"column:account_type"`
	AccountNumber         *string    `gorm:"column:account_number"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime"`
	EmailConfirmationSent bool       `gorm:"column:email_confirmation_sent;default:false"`
	Active                bool       `gorm:"column:active;default:true"`
	DeactivatedAt         *time.Time `gorm:"column:deactivated_at"`
	DeactivationReason    *string    `gorm:"column:deactivation_reason"`
	SubmittedToInsurer    bool       `gorm:"column:submitted_to_insurer;default:false"`
	SubmittedAt           *time.Time `gorm:"column:submitted_at"`
	BatchID               *string    `gorm:"column:batch_id"`
}

func (Registration) TableName() string {
	return "registrations"
}

type Dependent struct {
	ID                 int64      `gorm:"primaryKey"`
	RegistrationID     int64      `gorm:"column:registration_id;not null;index"`
	Relationship       string     `gorm:"column:relationship;not null"`
	RUT                string     `gorm:"column:rut;not null"`
	Name               string     `gorm:"column:name;not null"`
	Sex                *string    `gorm:"column:sex"`
	BirthDate          time.Time  `gorm:"column:birth_date;type:date;not null"`
	AgeAtRegistration  int        `gorm:"column:age_at_registration;not null"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	Active             bool       `gorm:"column:active;default:true"`
	RemovedAt          *time.Time `gorm:"column:removed_at"`
	SubmittedToInsurer bool       `gorm:"column:submitted_to_insurer;default:false"`
	SubmittedAt        *time.Time `gorm:"column:submitted_at"`
	BatchID            *string    `gorm:"column:batch_id"`
}

func (Dependent) TableName() string {
	return "dependents"
}
