package repository

import (
	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(favorite *model.Favorite) error
	FindByUserID(userID uint) ([]model.Favorite, error)
	FindUserIDsByFishID(fishID uint) ([]uint, error)
	DeleteByUserAndFish(userID, fishID uint) error
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(favorite *model.Favorite) error {
	logger.Debug("Creating favorite in database", map[string]interface{}{
		"user_id": favorite.UserID,
		"fish_id": favorite.FishID,
	})

	if err := r.db.Create(favorite).Error; err != nil {
		logger.Error("Failed to create favorite in database", err, map[string]interface{}{
			"user_id": favorite.UserID,
			"fish_id": favorite.FishID,
		})
		return err
	}

	logger.Debug("Favorite created in database", map[string]interface{}{
		"favorite_id": favorite.ID,
		"user_id":     favorite.UserID,
		"fish_id":     favorite.FishID,
	})
	return nil
}

func (r *favoriteRepository) FindByUserID(userID uint) ([]model.Favorite, error) {
	logger.Debug("Finding favorites by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var favorites []model.Favorite
	err := r.db.Where("user_id = ?", userID).
		Preload("Fish").
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		logger.Error("Failed to find favorites by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Favorites found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(favorites),
	})
	return favorites, nil
}

// FindUserIDsByFishID returns the distinct users who favorited the fish.
func (r *favoriteRepository) FindUserIDsByFishID(fishID uint) ([]uint, error) {
	var userIDs []uint
	err := r.db.Model(&model.Favorite{}).
		Where("fish_id = ?", fishID).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		logger.Error("Failed to find favorite holders by fish ID in database", err, map[string]interface{}{
			"fish_id": fishID,
		})
		return nil, err
	}
	return userIDs, nil
}

func (r *favoriteRepository) DeleteByUserAndFish(userID, fishID uint) error {
	logger.Debug("Deleting favorites by user and fish from database", map[string]interface{}{
		"user_id": userID,
		"fish_id": fishID,
	})

	if err := r.db.Where("user_id = ? AND fish_id = ?", userID, fishID).
		Delete(&model.Favorite{}).Error; err != nil {
		logger.Error("Failed to delete favorites by user and fish from database", err, map[string]interface{}{
			"user_id": userID,
			"fish_id": fishID,
		})
		return err
	}

	logger.Debug("Favorites deleted by user and fish from database", map[string]interface{}{
		"user_id": userID,
		"fish_id": fishID,
	})
	return nil
}
