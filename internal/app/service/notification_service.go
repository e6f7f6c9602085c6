package service

import (
	"errors"
	"fmt"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/internal/websocket"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService interface {
	Notify(userID uint, title, message string) error
	NotifyOrderConfirmed(userID uint, order *model.Order)
	NotifyFishSoldOut(fish *model.Fish)
	GetUserNotifications(userID uint, unreadOnly bool) ([]model.Notification, error)
	MarkAsRead(userID, notificationID uint) error
	CountUnread(userID uint) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	favoriteRepo     repository.FavoriteRepository
	hub              *websocket.Hub
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	favoriteRepo repository.FavoriteRepository,
	hub ...*websocket.Hub,
) NotificationService {
	var h *websocket.Hub
	if len(hub) > 0 {
		h = hub[0]
	}
	return &notificationService{
		notificationRepo: notificationRepo,
		favoriteRepo:     favoriteRepo,
		hub:              h,
	}
}

// Notify persists a notification and pushes it to the user's open WebSocket
// connections, if any.
func (s *notificationService) Notify(userID uint, title, message string) error {
	notification := &model.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Error("Failed to create notification", err, map[string]interface{}{
			"user_id": userID,
			"title":   title,
		})
		return err
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, notification)
	}

	logger.Debug("Notification delivered", map[string]interface{}{
		"notification_id": notification.ID,
		"user_id":         userID,
	})
	return nil
}

// NotifyOrderConfirmed is fired after a successful confirmation commit.
// Delivery failures are logged, never propagated.
func (s *notificationService) NotifyOrderConfirmed(userID uint, order *model.Order) {
	title := "Order confirmed"
	message := fmt.Sprintf("Order %s has been confirmed. Total: %.2f", order.OrderNumber, order.TotalPrice())

	if err := s.Notify(userID, title, message); err != nil {
		logger.Warn("Failed to deliver order confirmation notification", map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
	}
}

// NotifyFishSoldOut tells every user who favorited the fish that it sold out.
func (s *notificationService) NotifyFishSoldOut(fish *model.Fish) {
	userIDs, err := s.favoriteRepo.FindUserIDsByFishID(fish.ID)
	if err != nil {
		logger.Warn("Failed to resolve favorite holders for sell-out notification", map[string]interface{}{
			"fish_id": fish.ID,
		})
		return
	}

	title := "Fish sold out"
	message := fmt.Sprintf("%s (%s) is now out of stock", fish.Name, fish.Species)

	for _, userID := range userIDs {
		if err := s.Notify(userID, title, message); err != nil {
			logger.Warn("Failed to deliver sell-out notification", map[string]interface{}{
				"user_id": userID,
				"fish_id": fish.ID,
			})
		}
	}
}

func (s *notificationService) GetUserNotifications(userID uint, unreadOnly bool) ([]model.Notification, error) {
	return s.notificationRepo.FindByUserID(userID, unreadOnly)
}

func (s *notificationService) MarkAsRead(userID, notificationID uint) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}

	if notification.UserID != userID {
		logger.Warn("Notification access denied: ownership mismatch", map[string]interface{}{
			"user_id":         userID,
			"notification_id": notificationID,
			"owner_id":        notification.UserID,
		})
		return ErrNotificationNotFound
	}

	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) CountUnread(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}
