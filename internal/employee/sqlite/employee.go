package sqlite

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	employeeDatamodel "github.com/rbenavente/cargas-api/internal/core/datamodel/employee"
	"github.com/rbenavente/cargas-api/internal/employee"
)

// EmployeeRepository implements employee.Repository using GORM over the
// sqlite store file.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(emp *employee.Employee) error {
	row := employee.ToDataModel(emp)
	if err := r.db.Create(row).Error; err != nil {
		// sqlite reports the unique index on rut as a constraint error
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return employee.ErrEmployeeExists
		}
		return err
	}
	emp.ID = row.ID
	emp.CreatedAt = row.CreatedAt
	return nil
}

func (r *EmployeeRepository) FindActiveByRUT(canonicalRUT string) (*employee.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.Where("rut = ? AND active = ?", canonicalRUT, true).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&row), nil
}

func (r *EmployeeRepository) ListActive() ([]*employee.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.db.Where("active = ?", true).Order("name ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(rows), nil
}
