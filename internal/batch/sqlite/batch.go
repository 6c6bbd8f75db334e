package sqlite

import (
	"time"

	"gorm.io/gorm"

	"github.com/rbenavente/cargas-api/internal/batch"
	registrationDatamodel "github.com/rbenavente/cargas-api/internal/core/datamodel/registration"
	"github.com/rbenavente/cargas-api/internal/registration"
)

// BatchRepository implements batch.Repository over the sqlite store.
type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) batch.Repository {
	return &BatchRepository{db: db}
}

// ListPending returns active unsubmitted registrations oldest-first so
// the insurer receives them in FIFO order.
func (r *BatchRepository) ListPending() ([]*registration.Registration, error) {
	var rows []*registrationDatamodel.Registration
	err := r.db.
		Where("active = ? AND (submitted_to_insurer = ? OR submitted_to_insurer IS NULL)", true, false).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*registration.Registration, 0, len(rows))
	for _, row := range rows {
		reg := registration.FromDataModel(row)

		var depRows []*registrationDatamodel.Dependent
		err := r.db.
			Where("registration_id = ? AND active = ?", row.ID, true).
			Order("created_at ASC").
			Find(&depRows).Error
		if err != nil {
			return nil, err
		}
		reg.Dependents = registration.DependentsFromDataModel(depRows)
		result = append(result, reg)
	}
	return result, nil
}

// ListLateAdditions finds active dependents a prior batch missed: their
// registration is already submitted but they are not.
func (r *BatchRepository) ListLateAdditions() ([]*batch.LateAddition, error) {
	type joined struct {
		registrationDatamodel.Dependent
		EmployeeRUT  string
		EmployeeName string
	}

	var rows []joined
	err := r.db.Model(&registrationDatamodel.Dependent{}).
		Select("dependents.*, registrations.employee_rut AS employee_rut, registrations.employee_name AS employee_name").
		Joins("JOIN registrations ON registrations.id = dependents.registration_id").
		Where("registrations.submitted_to_insurer = ?", true).
		Where("dependents.active = ?", true).
		Where("dependents.submitted_to_insurer = ? OR dependents.submitted_to_insurer IS NULL", false).
		Order("dependents.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*batch.LateAddition, 0, len(rows))
	for i := range rows {
		result = append(result, &batch.LateAddition{
			Dependent:    registration.DependentFromDataModel(&rows[i].Dependent),
			EmployeeRUT:  rows[i].EmployeeRUT,
			EmployeeName: rows[i].EmployeeName,
		})
	}
	return result, nil
}

func (r *BatchRepository) ListAllActive() ([]*registration.Registration, error) {
	var rows []*registrationDatamodel.Registration
	err := r.db.Where("active = ?", true).Order("created_at ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]*registration.Registration, 0, len(rows))
	for _, row := range rows {
		reg := registration.FromDataModel(row)

		var depRows []*registrationDatamodel.Dependent
		err := r.db.
			Where("registration_id = ? AND active = ?", row.ID, true).
			Order("created_at ASC").
			Find(&depRows).Error
		if err != nil {
			return nil, err
		}
		reg.Dependents = registration.DependentsFromDataModel(depRows)
		result = append(result, reg)
	}
	return result, nil
}

// ConfirmBatchSent stamps every pending registration and every active
// unsubmitted dependent with the batch id and timestamp in one
// transaction. Called only after delivery was confirmed by the caller.
func (r *BatchRepository) ConfirmBatchSent(batchID string) (int64, int64, error) {
	var regCount, depCount int64
	now := time.Now()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&registrationDatamodel.Registration{}).
			Where("active = ? AND (submitted_to_insurer = ? OR submitted_to_insurer IS NULL)", true, false).
			Updates(map[string]interface{}{
				"submitted_to_insurer": true,
				"submitted_at":         now,
				"batch_id":             batchID,
			})
		if result.Error != nil {
			return result.Error
		}
		regCount = result.RowsAffected

		// covers dependents of just-marked registrations AND late
		// additions under previously submitted ones
		result = tx.Model(&registrationDatamodel.Dependent{}).
			Where("active = ? AND (submitted_to_insurer = ? OR submitted_to_insurer IS NULL)", true, false).
			Updates(map[string]interface{}{
				"submitted_to_insurer": true,
				"submitted_at":         now,
				"batch_id":             batchID,
			})
		if result.Error != nil {
			return result.Error
		}
		depCount = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return regCount, depCount, nil
}

// ResetSubmissionState clears the flags on all active rows and returns
// how many registrations were touched.
func (r *BatchRepository) ResetSubmissionState() (int64, error) {
	var regCount int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&registrationDatamodel.Registration{}).
			Where("active = ?", true).
			Updates(map[string]interface{}{
				"submitted_to_insurer": false,
				"submitted_at":         nil,
				"batch_id":             nil,
			})
		if result.Error != nil {
			return result.Error
		}
		regCount = result.RowsAffected

		result = tx.Model(&registrationDatamodel.Dependent{}).
			Where("active = ?", true).
			Updates(map[string]interface{}{
				"submitted_to_insurer": false,
				"submitted_at":         nil,
				"batch_id":             nil,
			})
		return result.Error
	})
	if err != nil {
		return 0, err
	}
	return regCount, nil
}
