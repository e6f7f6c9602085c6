package controller

import (
	"errors"
	"net/http"

	"github.com/dkim/aquamarket-backend/internal/app/service"
	apperrors "github.com/dkim/aquamarket-backend/internal/errors"
	"github.com/dkim/aquamarket-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ListCategories returns all categories
// GET /api/v1/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.GetCategories()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetCategory returns a category with its fish
// GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetCategory(categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to fetch category", err, map[string]interface{}{
			"category_id": categoryID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// CreateCategory adds a new category
// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	category, err := ctrl.categoryService.CreateCategory(req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategoryData) {
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Category name is required")
			return
		}
		info := apperrors.ParseError(err, "category")
		if info.Code == apperrors.ResourceAlreadyExists {
			apperrors.Conflict(c, info.Code, info.Message)
			return
		}
		log.Error("Failed to create category", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"category": category,
	})
}

// AddFishToCategory links a fish into a category
// POST /api/v1/categories/:id/fishes/:fish_id
func (ctrl *CategoryController) AddFishToCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fishID, ok := parseIDParam(c, "fish_id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.AddFishToCategory(categoryID, fishID); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		if errors.Is(err, service.ErrFishNotFound) {
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
			return
		}
		log.Error("Failed to add fish to category", err, map[string]interface{}{
			"category_id": categoryID,
			"fish_id":     fishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fish added to category successfully",
	})
}
