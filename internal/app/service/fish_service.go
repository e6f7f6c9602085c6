package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"github.com/dkim/aquamarket-backend/pkg/redis"
	"github.com/lib/pq"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrFishNotFound    = errors.New("fish not found")
	ErrInvalidFishData = errors.New("invalid fish data")
)

// CreateFishInput carries the caller-writable fields of a fish. Availability,
// rating and review count are derived and never accepted from input.
type CreateFishInput struct {
	Name          string
	Species       string
	Size          float64
	Price         float64
	Description   string
	ImageURLs     []string
	StockQuantity int
	CategoryIDs   []uint
}

type FishService interface {
	CreateFish(input CreateFishInput) (*model.Fish, error)
	GetFish(fishID uint) (*model.Fish, error)
	ListFishes(filter repository.FishFilter) ([]model.Fish, error)
	UpdateFish(fishID uint, input CreateFishInput) (*model.Fish, error)
	UpdateStock(fishID uint, quantity int) (*model.Fish, error)
	DeleteFish(fishID uint) error
	ReconcileAggregates() (int, error)
	ExportCatalog() ([]byte, error)
}

type fishService struct {
	fishRepo     repository.FishRepository
	categoryRepo repository.CategoryRepository
	db           *gorm.DB
}

func NewFishService(
	fishRepo repository.FishRepository,
	categoryRepo repository.CategoryRepository,
	db *gorm.DB,
) FishService {
	return &fishService{
		fishRepo:     fishRepo,
		categoryRepo: categoryRepo,
		db:           db,
	}
}

// recomputeAvailability rewrites is_available from the current stock quantity.
// Must run inside the same transaction as the stock mutation.
func recomputeAvailability(tx *gorm.DB, fishID uint) error {
	return tx.Model(&model.Fish{}).
		Where("id = ?", fishID).
		Update("is_available", gorm.Expr("stock_quantity > 0")).Error
}

// recomputeRating rewrites rating and num_reviews from the review rows. A fish
// with no reviews gets rating 0.0. Must run inside the same transaction as the
// review mutation.
func recomputeRating(tx *gorm.DB, fishID uint) error {
	var agg struct {
		Cnt int64
		Avg float64
	}
	err := tx.Model(&model.Review{}).
		Where("fish_id = ?", fishID).
		Select("COUNT(*) as cnt, COALESCE(AVG(rating), 0) as avg").
		Scan(&agg).Error
	if err != nil {
		return err
	}

	return tx.Model(&model.Fish{}).
		Where("id = ?", fishID).
		Updates(map[string]interface{}{
			"rating":      agg.Avg,
			"num_reviews": agg.Cnt,
		}).Error
}

// invalidateRankings drops cached platform popular/new listings after a
// catalog or review write.
func invalidateRankings() {
	_ = redis.DeleteByPattern(context.Background(), "platform:*:popular:*")
	_ = redis.DeleteByPattern(context.Background(), "platform:*:new:*")
}

func (s *fishService) CreateFish(input CreateFishInput) (*model.Fish, error) {
	logger.Info("Creating fish", map[string]interface{}{
		"name":    input.Name,
		"species": input.Species,
	})

	if input.Name == "" || input.Species == "" {
		logger.Warn("Fish creation failed: missing required fields", map[string]interface{}{
			"name":    input.Name,
			"species": input.Species,
		})
		return nil, ErrInvalidFishData
	}
	if input.Price < 0 || input.StockQuantity < 0 || input.Size < 0 {
		logger.Warn("Fish creation failed: negative value", map[string]interface{}{
			"price": input.Price,
			"stock": input.StockQuantity,
			"size":  input.Size,
		})
		return nil, ErrInvalidFishData
	}

	fish := &model.Fish{
		Name:          input.Name,
		Species:       input.Species,
		Size:          input.Size,
		Price:         input.Price,
		Description:   input.Description,
		ImageURLs:     input.ImageURLs,
		StockQuantity: input.StockQuantity,
		IsAvailable:   input.StockQuantity > 0,
	}

	for _, categoryID := range input.CategoryIDs {
		category, err := s.categoryRepo.FindByID(categoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Fish creation failed: category not found", map[string]interface{}{
					"category_id": categoryID,
				})
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		fish.Categories = append(fish.Categories, *category)
	}

	if err := s.fishRepo.Create(fish); err != nil {
		logger.Error("Failed to create fish", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	invalidateRankings()

	logger.Info("Fish created successfully", map[string]interface{}{
		"fish_id": fish.ID,
		"name":    fish.Name,
	})
	return fish, nil
}

func (s *fishService) GetFish(fishID uint) (*model.Fish, error) {
	fish, err := s.fishRepo.FindByID(fishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Fish not found", map[string]interface{}{
				"fish_id": fishID,
			})
			return nil, ErrFishNotFound
		}
		return nil, err
	}
	return fish, nil
}

func (s *fishService) ListFishes(filter repository.FishFilter) ([]model.Fish, error) {
	logger.Debug("Listing fishes", map[string]interface{}{
		"species":        filter.Species,
		"category_id":    filter.CategoryID,
		"available_only": filter.AvailableOnly,
	})
	return s.fishRepo.FindAll(filter)
}

func (s *fishService) UpdateFish(fishID uint, input CreateFishInput) (*model.Fish, error) {
	logger.Info("Updating fish", map[string]interface{}{
		"fish_id": fishID,
	})

	if _, err := s.fishRepo.FindByID(fishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFishNotFound
		}
		return nil, err
	}

	if input.Price < 0 || input.Size < 0 {
		return nil, ErrInvalidFishData
	}

	// Only caller-writable columns go in the update. Stock has its own locked
	// path and the derived columns are recomputed transactionally, so a catalog
	// edit never writes a stale copy of them.
	columns := map[string]interface{}{}
	if input.Name != "" {
		columns["name"] = input.Name
	}
	if input.Species != "" {
		columns["species"] = input.Species
	}
	if input.Size > 0 {
		columns["size"] = input.Size
	}
	if input.Price > 0 {
		columns["price"] = input.Price
	}
	if input.Description != "" {
		columns["description"] = input.Description
	}
	if input.ImageURLs != nil {
		columns["image_urls"] = pq.StringArray(input.ImageURLs)
	}

	if len(columns) > 0 {
		if err := s.fishRepo.UpdateColumns(fishID, columns); err != nil {
			logger.Error("Failed to update fish", err, map[string]interface{}{
				"fish_id": fishID,
			})
			return nil, err
		}
	}

	invalidateRankings()

	fish, err := s.fishRepo.FindByID(fishID)
	if err != nil {
		return nil, err
	}

	logger.Info("Fish updated successfully", map[string]interface{}{
		"fish_id": fish.ID,
	})
	return fish, nil
}

// UpdateStock replaces the fish's stock quantity and recomputes availability
// in the same transaction.
func (s *fishService) UpdateStock(fishID uint, quantity int) (*model.Fish, error) {
	logger.Info("Updating fish stock", map[string]interface{}{
		"fish_id":  fishID,
		"quantity": quantity,
	})

	if quantity < 0 {
		logger.Warn("Stock update rejected: negative quantity", map[string]interface{}{
			"fish_id":  fishID,
			"quantity": quantity,
		})
		return nil, ErrInvalidFishData
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during stock update, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"fish_id": fishID,
			})
		}
	}()

	var fish model.Fish
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&fish, fishID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFishNotFound
		}
		logger.Error("Failed to fetch fish for stock update", err, map[string]interface{}{
			"fish_id": fishID,
		})
		return nil, err
	}

	if err := tx.Model(&model.Fish{}).
		Where("id = ?", fishID).
		Update("stock_quantity", quantity).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to update stock quantity", err, map[string]interface{}{
			"fish_id": fishID,
		})
		return nil, err
	}

	if err := recomputeAvailability(tx, fishID); err != nil {
		tx.Rollback()
		logger.Error("Failed to recompute availability", err, map[string]interface{}{
			"fish_id": fishID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit stock update", err, map[string]interface{}{
			"fish_id": fishID,
		})
		return nil, err
	}

	logger.Info("Fish stock updated successfully", map[string]interface{}{
		"fish_id":  fishID,
		"quantity": quantity,
	})
	return s.fishRepo.FindByID(fishID)
}

func (s *fishService) DeleteFish(fishID uint) error {
	logger.Info("Deleting fish", map[string]interface{}{
		"fish_id": fishID,
	})

	if _, err := s.fishRepo.FindByID(fishID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFishNotFound
		}
		return err
	}

	if err := s.fishRepo.Delete(fishID); err != nil {
		return err
	}

	invalidateRankings()
	return nil
}

// ReconcileAggregates recomputes availability, rating and review count for the
// whole catalog from source rows. Run nightly to heal drift from out-of-band
// writes. Returns the number of fish swept.
func (s *fishService) ReconcileAggregates() (int, error) {
	logger.Info("Starting aggregate reconciliation sweep")

	var fishIDs []uint
	if err := s.db.Model(&model.Fish{}).Order("id ASC").Pluck("id", &fishIDs).Error; err != nil {
		logger.Error("Failed to list fish IDs for reconciliation", err)
		return 0, err
	}

	swept := 0
	for _, fishID := range fishIDs {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := recomputeAvailability(tx, fishID); err != nil {
				return err
			}
			return recomputeRating(tx, fishID)
		})
		if err != nil {
			logger.Error("Failed to reconcile fish aggregates", err, map[string]interface{}{
				"fish_id": fishID,
			})
			return swept, err
		}
		swept++
	}

	invalidateRankings()

	logger.Info("Aggregate reconciliation sweep completed", map[string]interface{}{
		"fish_count": swept,
	})
	return swept, nil
}

// ExportCatalog renders the full catalog as an xlsx workbook for back-office
// use.
func (s *fishService) ExportCatalog() ([]byte, error) {
	logger.Info("Exporting catalog to xlsx")

	fishes, err := s.fishRepo.FindAll(repository.FishFilter{})
	if err != nil {
		logger.Error("Failed to load catalog for export", err)
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Name", "Species", "Size (cm)", "Price", "Stock", "Available", "Rating", "Reviews"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, fish := range fishes {
		values := []interface{}{
			fish.ID, fish.Name, fish.Species, fish.Size, fish.Price,
			fish.StockQuantity, fish.IsAvailable, fish.Rating, fish.NumReviews,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to write xlsx workbook", err)
		return nil, err
	}

	logger.Info("Catalog exported successfully", map[string]interface{}{
		"fish_count": len(fishes),
	})
	return buf.Bytes(), nil
}
