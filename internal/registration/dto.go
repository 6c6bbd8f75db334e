package registration

import (
	"strings"
	"time"

	internal "github.com/rbenavente/cargas-api/internal"
	"github.com/rbenavente/cargas-api/internal/core/validation"
	"github.com/rbenavente/cargas-api/internal/rut"
)

const birthDateLayout = "2006-01-02"

type CreateRegistrationDTO struct {
	RUT           string            `json:"rut"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	BankName      string            `json:"bank_name,omitempty"`
	AccountType   string            `json:"account_type,omitempty"`
	AccountNumber string            `json:"account_number,omitempty"`
	Dependents    []AddDependentDTO `json:"dependents,omitempty"`
}

// Validate checks the worker fields. Bank data is optional as a block but
// if an account number is given it must be well formed. Dependents are
// validated individually against maxChildAge.
func (dto CreateRegistrationDTO) Validate(maxChildAge int) error {
	if err := rut.Validate(dto.RUT); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeInvalidRUT)
	}
	if err := validation.Name(dto.Name); err != nil {
		return err
	}
	if err := validation.Email(dto.Email); err != nil {
		return err
	}
	if strings.TrimSpace(dto.AccountNumber) != "" {
		if err := validation.AccountNumber(dto.AccountNumber); err != nil {
			return err
		}
	}
	for _, dep := range dto.Dependents {
		if err := dep.Validate(maxChildAge); err != nil {
			return err
		}
	}
	return nil
}

type AddDependentDTO struct {
	Relationship string `json:"relationship"`
	RUT          string `json:"rut"`
	Name         string `json:"name"`
	Sex          string `json:"sex,omitempty"`
	BirthDate    string `json:"birth_date"`
}

func (dto AddDependentDTO) Validate(maxChildAge int) error {
	switch dto.Relationship {
	case RelationshipSpouse, RelationshipChild:
	default:
		return internal.NewValidationError(
			"el parentesco debe ser 'Cónyuge' o 'Hijo'", internal.ErrCodeInvalidRelationship)
	}

	if err := rut.Validate(dto.RUT); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeInvalidRUT)
	}
	if err := validation.Name(dto.Name); err != nil {
		return err
	}

	birthDate, err := dto.ParseBirthDate()
	if err != nil {
		return err
	}

	// only children have an age ceiling; a spouse passes at any age
	ceiling := 0
	if dto.Relationship == RelationshipChild {
		ceiling = maxChildAge
	}
	if err := validation.BirthDate(birthDate, ceiling); err != nil {
		return err
	}
	return nil
}

func (dto AddDependentDTO) ParseBirthDate() (time.Time, error) {
	birthDate, err := time.Parse(birthDateLayout, strings.TrimSpace(dto.BirthDate))
	if err != nil {
		return time.Time{}, internal.NewValidationError(
			"la fecha de nacimiento debe tener formato AAAA-MM-DD", internal.ErrCodeInvalidBirthDate)
	}
	return birthDate, nil
}

// ToDomain builds the Dependent row, snapshotting the age at this moment.
func (dto AddDependentDTO) ToDomain(registrationID int64) (*Dependent, error) {
	birthDate, err := dto.ParseBirthDate()
	if err != nil {
		return nil, err
	}

	dep := &Dependent{
		RegistrationID:    registrationID,
		Relationship:      dto.Relationship,
		RUT:               rut.Canonicalize(dto.RUT),
		Name:              validation.TitleCase(dto.Name),
		BirthDate:         birthDate,
		AgeAtRegistration: validation.Age(birthDate),
		Active:            true,
	}
	if sex := strings.TrimSpace(dto.Sex); sex != "" {
		dep.Sex = &sex
	}
	return dep, nil
}

type DeactivateRegistrationDTO struct {
	Reason string `json:"reason,omitempty"`
}
