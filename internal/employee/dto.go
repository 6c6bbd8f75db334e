package employee

import (
	internal "github.com/rbenavente/cargas-api/internal"
	"github.com/rbenavente/cargas-api/internal/core/validation"
	"github.com/rbenavente/cargas-api/internal/rut"
)

type CreateEmployeeDTO struct {
	RUT   string `json:"rut"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (dto CreateEmployeeDTO) Validate() error {
	if err := rut.Validate(dto.RUT); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeInvalidRUT)
	}
	if err := validation.Name(dto.Name); err != nil {
		return err
	}
	if dto.Email != "" {
		if err := validation.Email(dto.Email); err != nil {
			return err
		}
	}
	return nil
}
