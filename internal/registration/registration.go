package registration

import (
	"errors"
	"time"

	registrationDatamodel "github.com/rbenavente/cargas-api/internal/core/datamodel/registration"
)

// Relationship values are persisted in Spanish: they are part of the
// contract with the insurer's intake spreadsheet.
const (
	RelationshipSpouse = "Cónyuge"
	RelationshipChild  = "Hijo"
)

// Domain errors
var (
	ErrRegistrationNotFound     = errors.New("registration not found")
	ErrRegistrationInactive     = errors.New("registration is no longer active")
	ErrActiveRegistrationExists = errors.New("an active registration already exists for this RUT")
	ErrDependentNotFound        = errors.New("dependent not found")
	ErrDependentExists          = errors.New("a dependent with this RUT is already registered")
)

// Registration is one worker's enrollment in the supplementary plan.
// EmployeeName is denormalized at creation time so the insurer report
// stays stable even if the directory entry is later edited.
type Registration struct {
	ID                    int64        `json:"id"`
	EmployeeRUT           string       `json:"employee_rut"`
	EmployeeName          string       `json:"employee_name"`
	Email                 string       `json:"email"`
	BankName              *string      `json:"bank_name,omitempty"`
	AccountType           *string      `json:"account_type,omitempty"`
	AccountNumber         *string      `json:"account_number,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	EmailConfirmationSent bool         `json:"email_confirmation_sent"`
	Active                bool         `json:"active"`
	DeactivatedAt         *time.Time   `json:"deactivated_at,omitempty"`
	DeactivationReason    *string      `json:"deactivation_reason,omitempty"`
	SubmittedToInsurer    bool         `json:"submitted_to_insurer"`
	SubmittedAt           *time.Time   `json:"submitted_at,omitempty"`
	BatchID               *string      `json:"batch_id,omitempty"`
	Dependents            []*Dependent `json:"dependents"`
}

// Dependent is a carga familiar under a registration. AgeAtRegistration
// is a snapshot taken at insertion, never re-derived from BirthDate.
type Dependent struct {
	ID                 int64      `json:"id"`
	RegistrationID     int64      `json:"registration_id"`
	Relationship       string     `json:"relationship"`
	RUT                string     `json:"rut"`
	Name               string     `json:"name"`
	Sex                *string    `json:"sex,omitempty"`
	BirthDate          time.Time  `json:"birth_date"`
	AgeAtRegistration  int        `json:"age_at_registration"`
	CreatedAt          time.Time  `json:"created_at"`
	Active             bool       `json:"active"`
	RemovedAt          *time.Time `json:"removed_at,omitempty"`
	SubmittedToInsurer bool       `json:"submitted_to_insurer"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	BatchID            *string    `json:"batch_id,omitempty"`
}

// Statistics is the admin dashboard aggregate, recomputed on every call.
type Statistics struct {
	EmployeeCount          int64            `json:"employee_count"`
	RegistrationCount      int64            `json:"registration_count"`
	DependentCount         int64            `json:"dependent_count"`
	DependentsByType       map[string]int64 `json:"dependents_by_type"`
	ConfirmationEmailsSent int64            `json:"confirmation_emails_sent"`
}

func ToDataModel(r *Registration) *registrationDatamodel.Registration {
	return &registrationDatamodel.Registration{
		ID:                    r.ID,
		EmployeeRUT:           r.EmployeeRUT,
		EmployeeName:          r.EmployeeName,
		Email:                 r.Email,
		BankName:              r.BankName,
		AccountType:           r.AccountType,
		AccountNumber:         r.AccountNumber,
		CreatedAt:             r.CreatedAt,
		EmailConfirmationSent: r.EmailConfirmationSent,
		Active:                r.Active,
		DeactivatedAt:         r.DeactivatedAt,
		DeactivationReason:    r.DeactivationReason,
		SubmittedToInsurer:    r.SubmittedToInsurer,
		SubmittedAt:           r.SubmittedAt,
		BatchID:               r.BatchID,
	}
}

func FromDataModel(r *registrationDatamodel.Registration) *Registration {
	return &Registration{
		ID:                    r.ID,
		EmployeeRUT:           r.EmployeeRUT,
		EmployeeName:          r.EmployeeName,
		Email:                 r.Email,
		BankName:              r.BankName,
		AccountType:           r.AccountType,
		AccountNumber:         r.AccountNumber,
		CreatedAt:             r.CreatedAt,
		EmailConfirmationSent: r.EmailConfirmationSent,
		Active:                r.Active,
		DeactivatedAt:         r.DeactivatedAt,
		DeactivationReason:    r.DeactivationReason,
		SubmittedToInsurer:    r.SubmittedToInsurer,
		SubmittedAt:           r.SubmittedAt,
		BatchID:               r.BatchID,
		Dependents:            []*Dependent{},
	}
}

func DependentToDataModel(d *Dependent) *registrationDatamodel.Dependent {
	return &registrationDatamodel.Dependent{
		ID:                 d.ID,
		RegistrationID:     d.RegistrationID,
		Relationship:       d.Relationship,
		RUT:                d.RUT,
		Name:               d.Name,
		Sex:                d.Sex,
		BirthDate:          d.BirthDate,
		AgeAtRegistration:  d.AgeAtRegistration,
		CreatedAt:          d.CreatedAt,
		Active:             d.Active,
		RemovedAt:          d.RemovedAt,
		SubmittedToInsurer: d.SubmittedToInsurer,
		SubmittedAt:        d.SubmittedAt,
		BatchID:            d.BatchID,
	}
}

func DependentFromDataModel(d *registrationDatamodel.Dependent) *Dependent {
	return &Dependent{
		ID:                 d.ID,
		RegistrationID:     d.RegistrationID,
		Relationship:       d.Relationship,
		RUT:                d.RUT,
		Name:               d.Name,
		Sex:                d.Sex,
		BirthDate:          d.BirthDate,
		AgeAtRegistration:  d.AgeAtRegistration,
		CreatedAt:          d.CreatedAt,
		Active:             d.Active,
		RemovedAt:          d.RemovedAt,
		SubmittedToInsurer: d.SubmittedToInsurer,
		SubmittedAt:        d.SubmittedAt,
		BatchID:            d.BatchID,
	}
}

func DependentsFromDataModel(rows []*registrationDatamodel.Dependent) []*Dependent {
	result := make([]*Dependent, len(rows))
	for i, d := range rows {
		result[i] = DependentFromDataModel(d)
	}
	return result
}
