package repository

import (
	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByID(id uint) (*model.Notification, error)
	FindByUserID(userID uint, unreadOnly bool) ([]model.Notification, error)
	MarkAsRead(id uint) error
	CountUnread(userID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	logger.Debug("Creating notification in database", map[string]interface{}{
		"user_id": notification.UserID,
		"title":   notification.Title,
	})

	if err := r.db.Create(notification).Error; err != nil {
		logger.Error("Failed to create notification in database", err, map[string]interface{}{
			"user_id": notification.UserID,
		})
		return err
	}

	return nil
}

func (r *notificationRepository) FindByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindByUserID(userID uint, unreadOnly bool) ([]model.Notification, error) {
	logger.Debug("Finding notifications by user ID in database", map[string]interface{}{
		"user_id":     userID,
		"unread_only": unreadOnly,
	})

	query := r.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []model.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		logger.Error("Failed to find notifications by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) MarkAsRead(id uint) error {
	if err := r.db.Model(&model.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error; err != nil {
		logger.Error("Failed to mark notification as read in database", err, map[string]interface{}{
			"notification_id": id,
		})
		return err
	}
	return nil
}

func (r *notificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
