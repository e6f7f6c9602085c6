package service

import (
	"errors"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

type FavoriteService interface {
	AddFavorite(userID, fishID uint) (*model.Favorite, error)
	GetUserFavorites(userID uint) ([]model.Favorite, error)
	RemoveFavorite(userID, fishID uint) error
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	fishRepo     repository.FishRepository
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	fishRepo repository.FishRepository,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		fishRepo:     fishRepo,
	}
}

// AddFavorite records a (user, fish) pairing. Repeated favorites are accepted
// and create additional rows.
func (s *favoriteService) AddFavorite(userID, fishID uint) (*model.Favorite, error) {
	logger.Info("Adding favorite", map[string]interface{}{
		"user_id": userID,
		"fish_id": fishID,
	})

	if _, err := s.fishRepo.FindByID(fishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Favorite rejected: fish not found", map[string]interface{}{
				"fish_id": fishID,
			})
			return nil, ErrFishNotFound
		}
		return nil, err
	}

	favorite := &model.Favorite{
		UserID: userID,
		FishID: fishID,
	}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		return nil, err
	}

	logger.Info("Favorite added successfully", map[string]interface{}{
		"favorite_id": favorite.ID,
		"user_id":     userID,
		"fish_id":     fishID,
	})
	return favorite, nil
}

func (s *favoriteService) GetUserFavorites(userID uint) ([]model.Favorite, error) {
	return s.favoriteRepo.FindByUserID(userID)
}

// RemoveFavorite deletes every favorite row the user holds for the fish.
// Removing a fish that was never favorited is a no-op.
func (s *favoriteService) RemoveFavorite(userID, fishID uint) error {
	logger.Info("Removing favorite", map[string]interface{}{
		"user_id": userID,
		"fish_id": fishID,
	})
	return s.favoriteRepo.DeleteByUserAndFish(userID, fishID)
}
