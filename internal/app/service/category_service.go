package service

import (
	"errors"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInvalidCategoryData = errors.New("invalid category data")
)

type CategoryService interface {
	CreateCategory(name, description string) (*model.Category, error)
	GetCategories() ([]model.Category, error)
	GetCategory(categoryID uint) (*model.Category, error)
	AddFishToCategory(categoryID, fishID uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	fishRepo     repository.FishRepository
	db           *gorm.DB
}

func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	fishRepo repository.FishRepository,
	db *gorm.DB,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		fishRepo:     fishRepo,
		db:           db,
	}
}

func (s *categoryService) CreateCategory(name, description string) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"name": name,
	})

	if name == "" {
		return nil, ErrInvalidCategoryData
	}

	category := &model.Category{
		Name:        name,
		Description: description,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created successfully", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *categoryService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) GetCategory(categoryID uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByIDWithFishes(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) AddFishToCategory(categoryID, fishID uint) error {
	logger.Info("Adding fish to category", map[string]interface{}{
		"category_id": categoryID,
		"fish_id":     fishID,
	})

	category, err := s.categoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	fish, err := s.fishRepo.FindByID(fishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFishNotFound
		}
		return err
	}

	if err := s.db.Model(category).Association("Fishes").Append(fish); err != nil {
		logger.Error("Failed to add fish to category", err, map[string]interface{}{
			"category_id": categoryID,
			"fish_id":     fishID,
		})
		return err
	}

	logger.Info("Fish added to category successfully", map[string]interface{}{
		"category_id": categoryID,
		"fish_id":     fishID,
	})
	return nil
}
