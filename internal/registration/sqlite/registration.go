package sqlite

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	employeeDatamodel "github.com/rbenavente/cargas-api/internal/core/datamodel/employee"
	notificationDatamodel "github.com/rbenavente/cargas-api/internal/core/datamodel/notification"
	registrationDatamodel "github.com/rbenavente/cargas-api/internal/core/datamodel/registration"
	"github.com/rbenavente/cargas-api/internal/notification"
	"github.com/rbenavente/cargas-api/internal/registration"
)

// RegistrationRepository implements registration.Repository over the
// sqlite store file. Mutations that the domain requires to be atomic
// (create with inline dependents, cascade deactivation, soft removal
// plus its notification) run inside one gorm transaction.
type RegistrationRepository struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) registration.Repository {
	return &RegistrationRepository{db: db}
}

// Create inserts the registration and its inline dependents. The
// one-active-registration-per-RUT rule is enforced here as a
// check-then-create inside the transaction rather than by caller
// discipline.
func (r *RegistrationRepository) Create(reg *registration.Registration) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&registrationDatamodel.Registration{}).
			Where("employee_rut = ? AND active = ?", reg.EmployeeRUT, true).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return registration.ErrActiveRegistrationExists
		}

		row := registration.ToDataModel(reg)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		reg.ID = row.ID
		reg.CreatedAt = row.CreatedAt

		for _, dep := range reg.Dependents {
			dep.RegistrationID = row.ID
			depRow := registration.DependentToDataModel(dep)
			if err := tx.Create(depRow).Error; err != nil {
				return err
			}
			dep.ID = depRow.ID
			dep.CreatedAt = depRow.CreatedAt
		}
		return nil
	})
}

// GetWithDependents returns the registration with ALL dependents,
// removed ones included. Export and admin views need the full history.
func (r *RegistrationRepository) GetWithDependents(id int64) (*registration.Registration, error) {
	var row registrationDatamodel.Registration
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registration.ErrRegistrationNotFound
		}
		return nil, err
	}

	reg := registration.FromDataModel(&row)
	deps, err := r.dependentsOf(r.db, id, false)
	if err != nil {
		return nil, err
	}
	reg.Dependents = deps
	return reg, nil
}

// FindActiveByEmployeeRUT returns the most recent active registration for
// the RUT with only its active dependents. This backs the self-service
// portal view.
func (r *RegistrationRepository) FindActiveByEmployeeRUT(canonicalRUT string) (*registration.Registration, error) {
	var row registrationDatamodel.Registration
	err := r.db.Where("employee_rut = ? AND active = ?", canonicalRUT, true).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registration.ErrRegistrationNotFound
		}
		return nil, err
	}

	reg := registration.FromDataModel(&row)
	deps, err := r.dependentsOf(r.db, row.ID, true)
	if err != nil {
		return nil, err
	}
	reg.Dependents = deps
	return reg, nil
}

func (r *RegistrationRepository) ListActive() ([]*registration.Registration, error) {
	var rows []*registrationDatamodel.Registration
	err := r.db.Where("active = ?", true).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*registration.Registration, 0, len(rows))
	for _, row := range rows {
		reg := registration.FromDataModel(row)
		deps, err := r.dependentsOf(r.db, row.ID, true)
		if err != nil {
			return nil, err
		}
		reg.Dependents = deps
		result = append(result, reg)
	}
	return result, nil
}

// AddDependent inserts a dependent under an active registration. The
// duplicate-RUT check is scoped to the registration's active dependents.
func (r *RegistrationRepository) AddDependent(dep *registration.Dependent) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var regRow registrationDatamodel.Registration
		if err := tx.First(&regRow, dep.RegistrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return registration.ErrRegistrationNotFound
			}
			return err
		}
		if !regRow.Active {
			return registration.ErrRegistrationInactive
		}

		var duplicates int64
		err := tx.Model(&registrationDatamodel.Dependent{}).
			Where("registration_id = ? AND rut = ? AND active = ?", dep.RegistrationID, dep.RUT, true).
			Count(&duplicates).Error
		if err != nil {
			return err
		}
		if duplicates > 0 {
			return registration.ErrDependentExists
		}

		row := registration.DependentToDataModel(dep)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		dep.ID = row.ID
		dep.CreatedAt = row.CreatedAt
		return nil
	})
}

// RemoveDependent soft-deletes the dependent and appends the
// DependentRemoved notification in the same transaction, so the feed can
// never miss a removal that committed.
func (r *RegistrationRepository) RemoveDependent(dependentID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var depRow registrationDatamodel.Dependent
		err := tx.Where("id = ? AND active = ?", dependentID, true).First(&depRow).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return registration.ErrDependentNotFound
			}
			return err
		}

		var regRow registrationDatamodel.Registration
		if err := tx.First(&regRow, depRow.RegistrationID).Error; err != nil {
			return err
		}

		now := time.Now()
		err = tx.Model(&registrationDatamodel.Dependent{}).
			Where("id = ?", dependentID).
			Updates(map[string]interface{}{"active": false, "removed_at": now}).Error
		if err != nil {
			return err
		}

		note := &notificationDatamodel.AdminNotification{
			Kind:         notification.KindDependentRemoved,
			EmployeeRUT:  regRow.EmployeeRUT,
			EmployeeName: regRow.EmployeeName,
			Description: fmt.Sprintf("Eliminó carga: %s - %s (RUT: %s)",
				depRow.Relationship, depRow.Name, depRow.RUT),
		}
		return tx.Create(note).Error
	})
}

// Deactivate cancels the registration and cascades the soft delete to all
// its dependents atomically. A partial cascade would leave dependents
// reported as covered under a cancelled plan.
func (r *RegistrationRepository) Deactivate(registrationID int64, reason string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var regRow registrationDatamodel.Registration
		err := tx.Where("id = ? AND active = ?", registrationID, true).First(&regRow).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return registration.ErrRegistrationNotFound
			}
			return err
		}

		now := time.Now()
		err = tx.Model(&registrationDatamodel.Registration{}).
			Where("id = ?", registrationID).
			Updates(map[string]interface{}{
				"active":              false,
				"deactivated_at":      now,
				"deactivation_reason": reason,
			}).Error
		if err != nil {
			return err
		}

		err = tx.Model(&registrationDatamodel.Dependent{}).
			Where("registration_id = ? AND active = ?", registrationID, true).
			Updates(map[string]interface{}{"active": false, "removed_at": now}).Error
		if err != nil {
			return err
		}

		note := &notificationDatamodel.AdminNotification{
			Kind:         notification.KindRegistrationCancelled,
			EmployeeRUT:  regRow.EmployeeRUT,
			EmployeeName: regRow.EmployeeName,
			Description:  fmt.Sprintf("Solicitó BAJA del seguro. Motivo: %s", reason),
		}
		return tx.Create(note).Error
	})
}

func (r *RegistrationRepository) MarkConfirmationEmailSent(registrationID int64) error {
	result := r.db.Model(&registrationDatamodel.Registration{}).
		Where("id = ?", registrationID).
		Update("email_confirmation_sent", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return registration.ErrRegistrationNotFound
	}
	return nil
}

// Statistics recomputes the aggregate with fresh counts; no caching.
func (r *RegistrationRepository) Statistics() (*registration.Statistics, error) {
	stats := &registration.Statistics{DependentsByType: make(map[string]int64)}

	err := r.db.Model(&employeeDatamodel.Employee{}).
		Where("active = ?", true).Count(&stats.EmployeeCount).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&registrationDatamodel.Registration{}).
		Where("active = ?", true).Count(&stats.RegistrationCount).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&registrationDatamodel.Dependent{}).
		Where("active = ?", true).Count(&stats.DependentCount).Error
	if err != nil {
		return nil, err
	}

	type typeCount struct {
		Relationship string
		Count        int64
	}
	var byType []typeCount
	err = r.db.Model(&registrationDatamodel.Dependent{}).
		Select("relationship, COUNT(*) as count").
		Where("active = ?", true).
		Group("relationship").
		Scan(&byType).Error
	if err != nil {
		return nil, err
	}
	for _, tc := range byType {
		stats.DependentsByType[tc.Relationship] = tc.Count
	}

	err = r.db.Model(&registrationDatamodel.Registration{}).
		Where("active = ? AND email_confirmation_sent = ?", true, true).
		Count(&stats.ConfirmationEmailsSent).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *RegistrationRepository) dependentsOf(db *gorm.DB, registrationID int64, activeOnly bool) ([]*registration.Dependent, error) {
	query := db.Where("registration_id = ?", registrationID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var rows []*registrationDatamodel.Dependent
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return registration.DependentsFromDataModel(rows), nil
}
