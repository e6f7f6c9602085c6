package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidRating = errors.New("rating must be between 0 and 5")

type ReviewService interface {
	CreateReview(userID, fishID uint, rating float64, comment string) (*model.Review, error)
	GetFishReviews(fishID uint) ([]model.Review, error)
	GetUserReviews(userID uint) ([]model.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	fishRepo   repository.FishRepository
	db         *gorm.DB
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	fishRepo repository.FishRepository,
	db *gorm.DB,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		fishRepo:   fishRepo,
		db:         db,
	}
}

// CreateReview inserts the review and recomputes the fish's rating and review
// count in the same transaction. Reviews are immutable once created.
func (s *reviewService) CreateReview(userID, fishID uint, rating float64, comment string) (*model.Review, error) {
	logger.Info("Creating review", map[string]interface{}{
		"user_id": userID,
		"fish_id": fishID,
		"rating":  rating,
	})

	if rating < 0 || rating > 5 {
		logger.Warn("Review rejected: rating out of range", map[string]interface{}{
			"user_id": userID,
			"fish_id": fishID,
			"rating":  rating,
		})
		return nil, ErrInvalidRating
	}

	if _, err := s.fishRepo.FindByID(fishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Review rejected: fish not found", map[string]interface{}{
				"fish_id": fishID,
			})
			return nil, ErrFishNotFound
		}
		return nil, err
	}

	review := &model.Review{
		UserID:     userID,
		FishID:     fishID,
		Rating:     rating,
		Comment:    comment,
		ReviewDate: time.Now(),
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during review creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
				"fish_id": fishID,
			})
		}
	}()

	if err := tx.Create(review).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create review", err, map[string]interface{}{
			"user_id": userID,
			"fish_id": fishID,
		})
		return nil, err
	}

	if err := recomputeRating(tx, fishID); err != nil {
		tx.Rollback()
		logger.Error("Failed to recompute fish rating", err, map[string]interface{}{
			"fish_id": fishID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit review transaction", err, map[string]interface{}{
			"user_id": userID,
			"fish_id": fishID,
		})
		return nil, err
	}

	invalidateRankings()

	logger.Info("Review created successfully", map[string]interface{}{
		"review_id": review.ID,
		"user_id":   userID,
		"fish_id":   fishID,
	})
	return review, nil
}

func (s *reviewService) GetFishReviews(fishID uint) ([]model.Review, error) {
	if _, err := s.fishRepo.FindByID(fishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFishNotFound
		}
		return nil, err
	}
	return s.reviewRepo.FindByFishID(fishID)
}

func (s *reviewService) GetUserReviews(userID uint) ([]model.Review, error) {
	return s.reviewRepo.FindByUserID(userID)
}
