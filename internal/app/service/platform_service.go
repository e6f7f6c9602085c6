package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"github.com/dkim/aquamarket-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrPlatformNotFound    = errors.New("platform not found")
	ErrAlreadyMember       = errors.New("user already has an account on this platform")
	ErrNotMember           = errors.New("user is not a member of this platform")
	ErrInvalidActivityType = errors.New("activity type must be login or logout")
	ErrInvalidPlatformData = errors.New("invalid platform data")
)

const rankingCacheTTL = 5 * time.Minute

// PlatformView is the platform read model including the derived count of
// currently available fish.
type PlatformView struct {
	Platform           *model.Platform `json:"platform"`
	AvailableFishCount int64           `json:"available_fish_count"`
}

type PlatformService interface {
	CreatePlatform(userID uint, name string) (*model.Platform, error)
	GetPlatforms() ([]model.Platform, error)
	GetPlatform(platformID uint) (*PlatformView, error)
	AddFish(platformID, fishID uint) error
	AddCategory(platformID, categoryID uint) error
	Join(userID, platformID uint) (*model.PlatformUser, error)
	RecordActivity(userID, platformID uint, activityType model.ActivityType) error
	GetActivityLog(userID, platformID uint) ([]model.ActivityLog, error)
	PopularFishes(platformID uint, limit int) ([]model.Fish, error)
	NewlyAddedFishes(platformID uint, limit int) ([]model.Fish, error)
}

type platformService struct {
	platformRepo repository.PlatformRepository
	fishRepo     repository.FishRepository
	categoryRepo repository.CategoryRepository
	db           *gorm.DB
}

func NewPlatformService(
	platformRepo repository.PlatformRepository,
	fishRepo repository.FishRepository,
	categoryRepo repository.CategoryRepository,
	db *gorm.DB,
) PlatformService {
	return &platformService{
		platformRepo: platformRepo,
		fishRepo:     fishRepo,
		categoryRepo: categoryRepo,
		db:           db,
	}
}

func (s *platformService) CreatePlatform(userID uint, name string) (*model.Platform, error) {
	logger.Info("Creating platform", map[string]interface{}{
		"user_id": userID,
		"name":    name,
	})

	if name == "" {
		return nil, ErrInvalidPlatformData
	}

	platform := &model.Platform{
		Name:   name,
		UserID: userID,
	}
	if err := s.platformRepo.Create(platform); err != nil {
		return nil, err
	}

	logger.Info("Platform created successfully", map[string]interface{}{
		"platform_id": platform.ID,
		"name":        platform.Name,
	})
	return platform, nil
}

func (s *platformService) GetPlatforms() ([]model.Platform, error) {
	return s.platformRepo.FindAll()
}

func (s *platformService) GetPlatform(platformID uint) (*PlatformView, error) {
	platform, err := s.platformRepo.FindByID(platformID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlatformNotFound
		}
		return nil, err
	}

	count, err := s.platformRepo.AvailableFishCount(platformID)
	if err != nil {
		return nil, err
	}

	return &PlatformView{
		Platform:           platform,
		AvailableFishCount: count,
	}, nil
}

func (s *platformService) AddFish(platformID, fishID uint) error {
	logger.Info("Adding fish to platform", map[string]interface{}{
		"platform_id": platformID,
		"fish_id":     fishID,
	})

	if _, err := s.platformRepo.FindByID(platformID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlatformNotFound
		}
		return err
	}
	if _, err := s.fishRepo.FindByID(fishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFishNotFound
		}
		return err
	}

	if err := s.platformRepo.AddFish(platformID, fishID); err != nil {
		return err
	}

	s.invalidatePlatformRankings(platformID)
	return nil
}

func (s *platformService) AddCategory(platformID, categoryID uint) error {
	logger.Info("Adding category to platform", map[string]interface{}{
		"platform_id": platformID,
		"category_id": categoryID,
	})

	if _, err := s.platformRepo.FindByID(platformID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlatformNotFound
		}
		return err
	}
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	return s.platformRepo.AddCategory(platformID, categoryID)
}

// Join opens a membership for the user. A user holds at most one account per
// platform; a second join is rejected.
func (s *platformService) Join(userID, platformID uint) (*model.PlatformUser, error) {
	logger.Info("User joining platform", map[string]interface{}{
		"user_id":     userID,
		"platform_id": platformID,
	})

	if _, err := s.platformRepo.FindByID(platformID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Join rejected: platform not found", map[string]interface{}{
				"platform_id": platformID,
			})
			return nil, ErrPlatformNotFound
		}
		return nil, err
	}

	if _, err := s.platformRepo.FindMembership(userID, platformID); err == nil {
		logger.Warn("Join rejected: user already a member", map[string]interface{}{
			"user_id":     userID,
			"platform_id": platformID,
		})
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	membership := &model.PlatformUser{
		UserID:         userID,
		PlatformID:     platformID,
		LastActivityAt: time.Now(),
	}
	if err := s.platformRepo.CreateMembership(membership); err != nil {
		// A concurrent join can still trip the unique index after the
		// existence check passed.
		return nil, err
	}

	logger.Info("User joined platform successfully", map[string]interface{}{
		"membership_id": membership.ID,
		"user_id":       userID,
		"platform_id":   platformID,
	})
	return membership, nil
}

// RecordActivity appends a login/logout entry and refreshes the membership's
// last-activity timestamp in one transaction.
func (s *platformService) RecordActivity(userID, platformID uint, activityType model.ActivityType) error {
	logger.Info("Recording platform activity", map[string]interface{}{
		"user_id":       userID,
		"platform_id":   platformID,
		"activity_type": activityType,
	})

	if activityType != model.ActivityLogin && activityType != model.ActivityLogout {
		logger.Warn("Activity rejected: invalid type", map[string]interface{}{
			"activity_type": activityType,
		})
		return ErrInvalidActivityType
	}

	membership, err := s.platformRepo.FindMembership(userID, platformID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Activity rejected: user not a member", map[string]interface{}{
				"user_id":     userID,
				"platform_id": platformID,
			})
			return ErrNotMember
		}
		return err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry := &model.ActivityLog{
			UserID:       userID,
			PlatformID:   platformID,
			ActivityType: activityType,
			CreatedAt:    now,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		return tx.Model(&model.PlatformUser{}).
			Where("id = ?", membership.ID).
			Update("last_activity_at", now).Error
	})
	if err != nil {
		logger.Error("Failed to record platform activity", err, map[string]interface{}{
			"user_id":     userID,
			"platform_id": platformID,
		})
		return err
	}

	logger.Info("Platform activity recorded successfully", map[string]interface{}{
		"user_id":       userID,
		"platform_id":   platformID,
		"activity_type": activityType,
	})
	return nil
}

// GetActivityLog lists the user's entries on the platform, newest first.
func (s *platformService) GetActivityLog(userID, platformID uint) ([]model.ActivityLog, error) {
	if _, err := s.platformRepo.FindMembership(userID, platformID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}

	return s.platformRepo.FindActivityLogs(userID, platformID)
}

func (s *platformService) PopularFishes(platformID uint, limit int) ([]model.Fish, error) {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("platform:%d:popular:%d", platformID, limit)
	var cached []model.Fish
	if err := redis.GetJSON(context.Background(), cacheKey, &cached); err == nil {
		logger.Debug("Popular fishes served from cache", map[string]interface{}{
			"platform_id": platformID,
			"limit":       limit,
		})
		return cached, nil
	}

	if _, err := s.platformRepo.FindByID(platformID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlatformNotFound
		}
		return nil, err
	}

	fishes, err := s.platformRepo.PopularFishes(platformID, limit)
	if err != nil {
		return nil, err
	}

	_ = redis.SetJSON(context.Background(), cacheKey, fishes, rankingCacheTTL)
	return fishes, nil
}

func (s *platformService) NewlyAddedFishes(platformID uint, limit int) ([]model.Fish, error) {
	if limit <= 0 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("platform:%d:new:%d", platformID, limit)
	var cached []model.Fish
	if err := redis.GetJSON(context.Background(), cacheKey, &cached); err == nil {
		logger.Debug("Newly added fishes served from cache", map[string]interface{}{
			"platform_id": platformID,
			"limit":       limit,
		})
		return cached, nil
	}

	if _, err := s.platformRepo.FindByID(platformID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlatformNotFound
		}
		return nil, err
	}

	fishes, err := s.platformRepo.NewlyAddedFishes(platformID, limit)
	if err != nil {
		return nil, err
	}

	_ = redis.SetJSON(context.Background(), cacheKey, fishes, rankingCacheTTL)
	return fishes, nil
}

func (s *platformService) invalidatePlatformRankings(platformID uint) {
	_ = redis.DeleteByPattern(context.Background(), fmt.Sprintf("platform:%d:popular:*", platformID))
	_ = redis.DeleteByPattern(context.Background(), fmt.Sprintf("platform:%d:new:*", platformID))
}
