package employee

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rbenavente/cargas-api/internal/core/validation"
	"github.com/rbenavente/cargas-api/internal/rut"
)

// maxImportErrorLines caps the error detail returned by BulkImport; the
// remainder collapses into a "+N more" suffix.
const maxImportErrorLines = 5

// Repository defines the data access methods for the employee directory.
type Repository interface {
	Create(emp *Employee) error
	FindActiveByRUT(canonicalRUT string) (*Employee, error)
	ListActive() ([]*Employee, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// AddEmployee inserts a directory entry. The RUT is stored canonical; a
// collision with any existing row, active or not, is a conflict.
func (s *Service) AddEmployee(dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err, "rut", dto.RUT)
		return nil, err
	}

	emp := &Employee{
		RUT:    rut.Canonicalize(dto.RUT),
		Name:   validation.TitleCase(dto.Name),
		Active: true,
	}
	if email := strings.ToLower(strings.TrimSpace(dto.Email)); email != "" {
		emp.Email = &email
	}

	if err := s.repo.Create(emp); err != nil {
		s.logger.Warn("failed to create employee", "error", err, "rut", emp.RUT)
		return nil, err
	}

	s.logger.Info("employee added", "rut", emp.RUT, "name", emp.Name)
	return emp, nil
}

// FindByRUT looks up an active employee by RUT in any input format.
func (s *Service) FindByRUT(rawRUT string) (*Employee, error) {
	emp, err := s.repo.FindActiveByRUT(rut.Canonicalize(rawRUT))
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *Service) ListEmployees() ([]*Employee, error) {
	return s.repo.ListActive()
}

// BulkImport loads directory rows with partial-success semantics: a bad
// row is skipped and reported, never aborting the batch.
func (s *Service) BulkImport(rows []ImportRow) ImportResult {
	var result ImportResult
	var errLines []string

	for _, row := range rows {
		if strings.TrimSpace(row.RUT) == "" || strings.TrimSpace(row.Name) == "" {
			result.Failed++
			errLines = append(errLines, fmt.Sprintf("fila %d: RUT o Nombre vacío", row.Line))
			continue
		}

		dto := CreateEmployeeDTO{RUT: row.RUT, Name: row.Name, Email: row.Email}
		if _, err := s.AddEmployee(dto); err != nil {
			result.Failed++
			errLines = append(errLines, fmt.Sprintf("fila %d: RUT %s ya existe o es inválido", row.Line, row.RUT))
			continue
		}
		result.Succeeded++
	}

	if len(errLines) > 0 {
		shown := errLines
		if len(shown) > maxImportErrorLines {
			shown = shown[:maxImportErrorLines]
		}
		result.ErrorDetail = strings.Join(shown, "; ")
		if extra := len(errLines) - maxImportErrorLines; extra > 0 {
			result.ErrorDetail += fmt.Sprintf(" ... y %d más", extra)
		}
	}

	s.logger.Info("bulk import finished",
		"succeeded", result.Succeeded,
		"failed", result.Failed)
	return result
}
