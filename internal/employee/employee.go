package employee

import (
	"errors"
	"time"

	employeeDatamodel "github.com/rbenavente/cargas-api/internal/core/datamodel/employee"
)

type Employee struct {
	ID        int64     `json:"id"`
	RUT       string    `json:"rut"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Domain errors
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeExists   = errors.New("employee already exists")
)

// ImportRow is one spreadsheet row handed to BulkImport. Column lookup is
// case-insensitive on the reader side; empty strings mean missing cells.
type ImportRow struct {
	Line  int
	RUT   string
	Name  string
	Email string
}

// ImportResult carries the partial-success outcome of a bulk import.
type ImportResult struct {
	Succeeded   int    `json:"succeeded"`
	Failed      int    `json:"failed"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:        e.ID,
		RUT:       e.RUT,
		Name:      e.Name,
		Email:     e.Email,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:        e.ID,
		RUT:       e.RUT,
		Name:      e.Name,
		Email:     e.Email,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
	}
}

func FromDataModelSlice(rows []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(rows))
	for i, e := range rows {
		result[i] = FromDataModel(e)
	}
	return result
}
