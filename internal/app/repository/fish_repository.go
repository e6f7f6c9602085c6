package repository

import (
	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

// FishFilter narrows catalog listings. Zero values mean "no filter".
type FishFilter struct {
	Species       string
	CategoryID    uint
	AvailableOnly bool
	MinPrice      float64
	MaxPrice      float64
	Search        string
}

type FishRepository interface {
	Create(fish *model.Fish) error
	BulkCreate(fishes []model.Fish, batchSize int) error
	FindByID(id uint) (*model.Fish, error)
	FindByIDs(ids []uint) ([]model.Fish, error)
	FindAll(filter FishFilter) ([]model.Fish, error)
	UpdateColumns(id uint, columns map[string]interface{}) error
	Delete(id uint) error
}

type fishRepository struct {
	db *gorm.DB
}

func NewFishRepository(db *gorm.DB) FishRepository {
	return &fishRepository{db: db}
}

func (r *fishRepository) Create(fish *model.Fish) error {
	logger.Debug("Creating fish in database", map[string]interface{}{
		"name":    fish.Name,
		"species": fish.Species,
	})

	if err := r.db.Create(fish).Error; err != nil {
		logger.Error("Failed to create fish in database", err, map[string]interface{}{
			"name":    fish.Name,
			"species": fish.Species,
		})
		return err
	}

	logger.Debug("Fish created in database", map[string]interface{}{
		"fish_id": fish.ID,
		"name":    fish.Name,
	})
	return nil
}

func (r *fishRepository) BulkCreate(fishes []model.Fish, batchSize int) error {
	logger.Debug("Bulk creating fishes in database", map[string]interface{}{
		"count":      len(fishes),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(fishes, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create fishes in database", err, map[string]interface{}{
			"count": len(fishes),
		})
		return err
	}

	logger.Info("Fishes bulk created in database", map[string]interface{}{
		"count": len(fishes),
	})
	return nil
}

func (r *fishRepository) FindByID(id uint) (*model.Fish, error) {
	logger.Debug("Finding fish by ID in database", map[string]interface{}{
		"fish_id": id,
	})

	var fish model.Fish
	err := r.db.Preload("Categories").First(&fish, id).Error
	if err != nil {
		logger.Error("Failed to find fish by ID in database", err, map[string]interface{}{
			"fish_id": id,
		})
		return nil, err
	}

	return &fish, nil
}

func (r *fishRepository) FindByIDs(ids []uint) ([]model.Fish, error) {
	logger.Debug("Finding fishes by IDs in database", map[string]interface{}{
		"count": len(ids),
	})

	var fishes []model.Fish
	if err := r.db.Where("id IN ?", ids).Find(&fishes).Error; err != nil {
		logger.Error("Failed to find fishes by IDs in database", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}

	return fishes, nil
}

func (r *fishRepository) FindAll(filter FishFilter) ([]model.Fish, error) {
	logger.Debug("Finding fishes in database", map[string]interface{}{
		"species":        filter.Species,
		"category_id":    filter.CategoryID,
		"available_only": filter.AvailableOnly,
	})

	query := r.db.Model(&model.Fish{}).Preload("Categories")

	if filter.Species != "" {
		query = query.Where("species = ?", filter.Species)
	}
	if filter.CategoryID != 0 {
		query = query.Joins("JOIN fish_categories fc ON fc.fish_id = fishes.id").
			Where("fc.category_id = ?", filter.CategoryID)
	}
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ? OR species LIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var fishes []model.Fish
	if err := query.Order("id ASC").Find(&fishes).Error; err != nil {
		logger.Error("Failed to find fishes in database", err, map[string]interface{}{
			"species": filter.Species,
		})
		return nil, err
	}

	logger.Debug("Fishes found in database", map[string]interface{}{
		"count": len(fishes),
	})
	return fishes, nil
}

// UpdateColumns writes only the given columns. Stock and the derived columns
// are owned by their own transactional paths and must never appear here, so a
// catalog edit cannot clobber a concurrent stock decrement.
func (r *fishRepository) UpdateColumns(id uint, columns map[string]interface{}) error {
	logger.Debug("Updating fish in database", map[string]interface{}{
		"fish_id": id,
		"columns": len(columns),
	})

	if err := r.db.Model(&model.Fish{}).Where("id = ?", id).Updates(columns).Error; err != nil {
		logger.Error("Failed to update fish in database", err, map[string]interface{}{
			"fish_id": id,
		})
		return err
	}

	logger.Debug("Fish updated in database", map[string]interface{}{
		"fish_id": id,
	})
	return nil
}

func (r *fishRepository) Delete(id uint) error {
	logger.Debug("Deleting fish from database", map[string]interface{}{
		"fish_id": id,
	})

	if err := r.db.Delete(&model.Fish{}, id).Error; err != nil {
		logger.Error("Failed to delete fish from database", err, map[string]interface{}{
			"fish_id": id,
		})
		return err
	}

	logger.Debug("Fish deleted from database", map[string]interface{}{
		"fish_id": id,
	})
	return nil
}
