package repositories

import (
	"context"
	"errors"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotificationByID(ctx context.Context, id uint) (*models.Notification, error)
	GetByAdressatID(ctx context.Context, adressatID string) ([]models.Notification, error)
	GetUnseen(ctx context.Context, adressatID string) ([]models.Notification, error)
	// SaveState persists the read and seen flags that are set on n. Flags
	// that are false are left untouched so a stale copy never moves a
	// notification back.
	SaveState(ctx context.Context, n *models.Notification) error
	MarkAllAsRead(ctx context.Context, adressatID string) (int64, error)
	MarkAllAsSeen(ctx context.Context, adressatID string) (int64, error)
	DeleteNotification(ctx context.Context, id uint) error
	DeleteAllByAdressatID(ctx context.Context, adressatID string) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *postgresNotificationRepository) GetNotificationByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) GetByAdressatID(ctx context.Context, adressatID string) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := r.db.WithContext(ctx).
		Where("adressat_id = ?", adressatID).
		Order("created_at DESC").Order("id DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) GetUnseen(ctx context.Context, adressatID string) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := r.db.WithContext(ctx).
		Where("adressat_id = ? AND is_seen = ?", adressatID, false).
		Order("created_at DESC").Order("id DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *postgresNotificationRepository) SaveState(ctx context.Context, n *models.Notification) error {
	updates := map[string]interface{}{}
	if n.Seen {
		updates["is_seen"] = true
	}
	if n.Read {
		updates["is_read"] = true
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", n.ID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, adressatID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("adressat_id = ? AND (is_read = ? OR is_seen = ?)", adressatID, false, false).
		Updates(map[string]interface{}{"is_read": true, "is_seen": true})
	return res.RowsAffected, res.Error
}

func (r *postgresNotificationRepository) MarkAllAsSeen(ctx context.Context, adressatID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("adressat_id = ? AND is_seen = ?", adressatID, false).
		Update("is_seen", true)
	return res.RowsAffected, res.Error
}

func (r *postgresNotificationRepository) DeleteNotification(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) DeleteAllByAdressatID(ctx context.Context, adressatID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("adressat_id = ?", adressatID).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
