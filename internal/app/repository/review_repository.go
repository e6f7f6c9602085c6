package repository

import (
	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	FindByFishID(fishID uint) ([]model.Review, error)
	FindByUserID(userID uint) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) FindByFishID(fishID uint) ([]model.Review, error) {
	logger.Debug("Finding reviews by fish ID in database", map[string]interface{}{
		"fish_id": fishID,
	})

	var reviews []model.Review
	err := r.db.Where("fish_id = ?", fishID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by fish ID in database", err, map[string]interface{}{
			"fish_id": fishID,
		})
		return nil, err
	}

	logger.Debug("Reviews found by fish ID in database", map[string]interface{}{
		"fish_id": fishID,
		"count":   len(reviews),
	})
	return reviews, nil
}

func (r *reviewRepository) FindByUserID(userID uint) ([]model.Review, error) {
	logger.Debug("Finding reviews by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var reviews []model.Review
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to find reviews by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return reviews, nil
}
