package sqlite

import (
	"gorm.io/gorm"

	notificationDatamodel "github.com/rbenavente/cargas-api/internal/core/datamodel/notification"
	"github.com/rbenavente/cargas-api/internal/notification"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.Repository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ListUnread() ([]*notification.AdminNotification, error) {
	var rows []*notificationDatamodel.AdminNotification
	err := r.db.Where("read = ?", false).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(rows), nil
}

func (r *NotificationRepository) MarkRead(id int64) error {
	result := r.db.Model(&notificationDatamodel.AdminNotification{}).
		Where("id = ?", id).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead() (int64, error) {
	result := r.db.Model(&notificationDatamodel.AdminNotification{}).
		Where("read = ?", false).
		Update("read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
