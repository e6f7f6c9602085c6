package repository

import (
	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

type PlatformRepository interface {
	Create(platform *model.Platform) error
	FindByID(id uint) (*model.Platform, error)
	FindAll() ([]model.Platform, error)
	AddFish(platformID, fishID uint) error
	AddCategory(platformID, categoryID uint) error

	CreateMembership(membership *model.PlatformUser) error
	FindMembership(userID, platformID uint) (*model.PlatformUser, error)
	UpdateMembership(membership *model.PlatformUser) error

	CreateActivityLog(entry *model.ActivityLog) error
	FindActivityLogs(userID, platformID uint) ([]model.ActivityLog, error)

	PopularFishes(platformID uint, limit int) ([]model.Fish, error)
	NewlyAddedFishes(platformID uint, limit int) ([]model.Fish, error)
	AvailableFishCount(platformID uint) (int64, error)
}

type platformRepository struct {
	db *gorm.DB
}

func NewPlatformRepository(db *gorm.DB) PlatformRepository {
	return &platformRepository{db: db}
}

func (r *platformRepository) Create(platform *model.Platform) error {
	logger.Debug("Creating platform in database", map[string]interface{}{
		"name":    platform.Name,
		"user_id": platform.UserID,
	})

	if err := r.db.Create(platform).Error; err != nil {
		logger.Error("Failed to create platform in database", err, map[string]interface{}{
			"name": platform.Name,
		})
		return err
	}

	logger.Debug("Platform created in database", map[string]interface{}{
		"platform_id": platform.ID,
		"name":        platform.Name,
	})
	return nil
}

func (r *platformRepository) FindByID(id uint) (*model.Platform, error) {
	logger.Debug("Finding platform by ID in database", map[string]interface{}{
		"platform_id": id,
	})

	var platform model.Platform
	err := r.db.Preload("Categories").First(&platform, id).Error
	if err != nil {
		logger.Error("Failed to find platform by ID in database", err, map[string]interface{}{
			"platform_id": id,
		})
		return nil, err
	}

	return &platform, nil
}

func (r *platformRepository) FindAll() ([]model.Platform, error) {
	var platforms []model.Platform
	if err := r.db.Order("id ASC").Find(&platforms).Error; err != nil {
		logger.Error("Failed to find platforms in database", err)
		return nil, err
	}
	return platforms, nil
}

func (r *platformRepository) AddFish(platformID, fishID uint) error {
	logger.Debug("Adding fish to platform in database", map[string]interface{}{
		"platform_id": platformID,
		"fish_id":     fishID,
	})

	err := r.db.Model(&model.Platform{ID: platformID}).
		Association("Fishes").
		Append(&model.Fish{ID: fishID})
	if err != nil {
		logger.Error("Failed to add fish to platform in database", err, map[string]interface{}{
			"platform_id": platformID,
			"fish_id":     fishID,
		})
		return err
	}

	logger.Debug("Fish added to platform in database", map[string]interface{}{
		"platform_id": platformID,
		"fish_id":     fishID,
	})
	return nil
}

func (r *platformRepository) AddCategory(platformID, categoryID uint) error {
	logger.Debug("Adding category to platform in database", map[string]interface{}{
		"platform_id": platformID,
		"category_id": categoryID,
	})

	err := r.db.Model(&model.Platform{ID: platformID}).
		Association("Categories").
		Append(&model.Category{ID: categoryID})
	if err != nil {
		logger.Error("Failed to add category to platform in database", err, map[string]interface{}{
			"platform_id": platformID,
			"category_id": categoryID,
		})
		return err
	}

	return nil
}

func (r *platformRepository) CreateMembership(membership *model.PlatformUser) error {
	logger.Debug("Creating platform membership in database", map[string]interface{}{
		"user_id":     membership.UserID,
		"platform_id": membership.PlatformID,
	})

	if err := r.db.Create(membership).Error; err != nil {
		logger.Error("Failed to create platform membership in database", err, map[string]interface{}{
			"user_id":     membership.UserID,
			"platform_id": membership.PlatformID,
		})
		return err
	}

	logger.Debug("Platform membership created in database", map[string]interface{}{
		"membership_id": membership.ID,
		"user_id":       membership.UserID,
		"platform_id":   membership.PlatformID,
	})
	return nil
}

func (r *platformRepository) FindMembership(userID, platformID uint) (*model.PlatformUser, error) {
	var membership model.PlatformUser
	err := r.db.Where("user_id = ? AND platform_id = ?", userID, platformID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *platformRepository) UpdateMembership(membership *model.PlatformUser) error {
	if err := r.db.Save(membership).Error; err != nil {
		logger.Error("Failed to update platform membership in database", err, map[string]interface{}{
			"membership_id": membership.ID,
		})
		return err
	}
	return nil
}

func (r *platformRepository) CreateActivityLog(entry *model.ActivityLog) error {
	logger.Debug("Creating activity log entry in database", map[string]interface{}{
		"user_id":       entry.UserID,
		"platform_id":   entry.PlatformID,
		"activity_type": entry.ActivityType,
	})

	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create activity log entry in database", err, map[string]interface{}{
			"user_id":     entry.UserID,
			"platform_id": entry.PlatformID,
		})
		return err
	}

	return nil
}

func (r *platformRepository) FindActivityLogs(userID, platformID uint) ([]model.ActivityLog, error) {
	logger.Debug("Finding activity logs in database", map[string]interface{}{
		"user_id":     userID,
		"platform_id": platformID,
	})

	var entries []model.ActivityLog
	err := r.db.Where("user_id = ? AND platform_id = ?", userID, platformID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		logger.Error("Failed to find activity logs in database", err, map[string]interface{}{
			"user_id":     userID,
			"platform_id": platformID,
		})
		return nil, err
	}

	return entries, nil
}

// PopularFishes returns the platform's fish ranked by review count. Ties break
// on ascending fish ID so the ordering is stable across calls.
func (r *platformRepository) PopularFishes(platformID uint, limit int) ([]model.Fish, error) {
	logger.Debug("Finding popular fishes for platform in database", map[string]interface{}{
		"platform_id": platformID,
		"limit":       limit,
	})

	var fishes []model.Fish
	err := r.db.Model(&model.Fish{}).
		Joins("JOIN platform_fishes pf ON pf.fish_id = fishes.id").
		Where("pf.platform_id = ?", platformID).
		Order("fishes.num_reviews DESC, fishes.id ASC").
		Limit(limit).
		Find(&fishes).Error
	if err != nil {
		logger.Error("Failed to find popular fishes for platform in database", err, map[string]interface{}{
			"platform_id": platformID,
		})
		return nil, err
	}

	return fishes, nil
}

// NewlyAddedFishes returns the platform's fish newest first. Ties break on
// ascending fish ID.
func (r *platformRepository) NewlyAddedFishes(platformID uint, limit int) ([]model.Fish, error) {
	logger.Debug("Finding newly added fishes for platform in database", map[string]interface{}{
		"platform_id": platformID,
		"limit":       limit,
	})

	var fishes []model.Fish
	err := r.db.Model(&model.Fish{}).
		Joins("JOIN platform_fishes pf ON pf.fish_id = fishes.id").
		Where("pf.platform_id = ?", platformID).
		Order("fishes.created_at DESC, fishes.id ASC").
		Limit(limit).
		Find(&fishes).Error
	if err != nil {
		logger.Error("Failed to find newly added fishes for platform in database", err, map[string]interface{}{
			"platform_id": platformID,
		})
		return nil, err
	}

	return fishes, nil
}

func (r *platformRepository) AvailableFishCount(platformID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Fish{}).
		Joins("JOIN platform_fishes pf ON pf.fish_id = fishes.id").
		Where("pf.platform_id = ? AND fishes.is_available = ?", platformID, true).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count available fishes for platform in database", err, map[string]interface{}{
			"platform_id": platformID,
		})
		return 0, err
	}
	return count, nil
}
