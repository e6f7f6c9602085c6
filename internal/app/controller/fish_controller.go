package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dkim/aquamarket-backend/internal/app/repository"
	"github.com/dkim/aquamarket-backend/internal/app/service"
	apperrors "github.com/dkim/aquamarket-backend/internal/errors"
	"github.com/dkim/aquamarket-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type FishController struct {
	fishService   service.FishService
	reviewService service.ReviewService
}

func NewFishController(fishService service.FishService, reviewService service.ReviewService) *FishController {
	return &FishController{
		fishService:   fishService,
		reviewService: reviewService,
	}
}

type CreateFishRequest struct {
	Name          string   `json:"name" binding:"required"`
	Species       string   `json:"species" binding:"required"`
	Size          float64  `json:"size" binding:"gte=0"`
	Price         float64  `json:"price" binding:"gte=0"`
	Description   string   `json:"description"`
	ImageURLs     []string `json:"image_urls"`
	StockQuantity int      `json:"stock_quantity" binding:"gte=0"`
	CategoryIDs   []uint   `json:"category_ids"`
}

type UpdateFishRequest struct {
	Name        string   `json:"name"`
	Species     string   `json:"species"`
	Size        float64  `json:"size"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	ImageURLs   []string `json:"image_urls"`
}

type UpdateStockRequest struct {
	StockQuantity *int `json:"stock_quantity" binding:"required"`
}

type CreateReviewRequest struct {
	Rating  *float64 `json:"rating" binding:"required"`
	Comment string   `json:"comment"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// ListFishes returns the catalog, optionally filtered
// GET /api/v1/fishes
func (ctrl *FishController) ListFishes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.FishFilter{
		Species:       c.Query("species"),
		Search:        c.Query("search"),
		AvailableOnly: c.Query("available") == "true",
	}
	if categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 32); err == nil {
		filter.CategoryID = uint(categoryID)
	}
	if minPrice, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filter.MinPrice = minPrice
	}
	if maxPrice, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filter.MaxPrice = maxPrice
	}

	fishes, err := ctrl.fishService.ListFishes(filter)
	if err != nil {
		log.Error("Failed to list fishes", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fishes": fishes,
		"count":  len(fishes),
	})
}

// GetFish returns a single fish with its categories
// GET /api/v1/fishes/:id
func (ctrl *FishController) GetFish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fishID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fish, err := ctrl.fishService.GetFish(fishID)
	if err != nil {
		if errors.Is(err, service.ErrFishNotFound) {
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
			return
		}
		log.Error("Failed to fetch fish", err, map[string]interface{}{
			"fish_id": fishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fish": fish,
	})
}

// CreateFish adds a fish to the catalog
// POST /api/v1/fishes
func (ctrl *FishController) CreateFish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateFishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create fish request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	fish, err := ctrl.fishService.CreateFish(service.CreateFishInput{
		Name:          req.Name,
		Species:       req.Species,
		Size:          req.Size,
		Price:         req.Price,
		Description:   req.Description,
		ImageURLs:     req.ImageURLs,
		StockQuantity: req.StockQuantity,
		CategoryIDs:   req.CategoryIDs,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidFishData) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid fish data")
			return
		}
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to create fish", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Fish created", map[string]interface{}{
		"fish_id": fish.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"fish": fish,
	})
}

// UpdateFish modifies catalog fields of a fish
// PUT /api/v1/fishes/:id
func (ctrl *FishController) UpdateFish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fishID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateFishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	fish, err := ctrl.fishService.UpdateFish(fishID, service.CreateFishInput{
		Name:        req.Name,
		Species:     req.Species,
		Size:        req.Size,
		Price:       req.Price,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		if errors.Is(err, service.ErrFishNotFound) {
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
			return
		}
		if errors.Is(err, service.ErrInvalidFishData) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid fish data")
			return
		}
		log.Error("Failed to update fish", err, map[string]interface{}{
			"fish_id": fishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fish": fish,
	})
}

// UpdateStock replaces a fish's stock quantity
// PUT /api/v1/fishes/:id/stock
func (ctrl *FishController) UpdateStock(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fishID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	fish, err := ctrl.fishService.UpdateStock(fishID, *req.StockQuantity)
	if err != nil {
		if errors.Is(err, service.ErrFishNotFound) {
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
			return
		}
		if errors.Is(err, service.ErrInvalidFishData) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Stock quantity cannot be negative")
			return
		}
		log.Error("Failed to update fish stock", err, map[string]interface{}{
			"fish_id": fishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Fish stock updated", map[string]interface{}{
		"fish_id":        fishID,
		"stock_quantity": fish.StockQuantity,
		"is_available":   fish.IsAvailable,
	})

	c.JSON(http.StatusOK, gin.H{
		"fish": fish,
	})
}

// DeleteFish removes a fish from the catalog
// DELETE /api/v1/fishes/:id
func (ctrl *FishController) DeleteFish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fishID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.fishService.DeleteFish(fishID); err != nil {
		if errors.Is(err, service.ErrFishNotFound) {
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
			return
		}
		log.Error("Failed to delete fish", err, map[string]interface{}{
			"fish_id": fishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fish deleted successfully",
	})
}

// ExportCatalog streams the catalog as an xlsx workbook
// GET /api/v1/fishes/export
func (ctrl *FishController) ExportCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	data, err := ctrl.fishService.ExportCatalog()
	if err != nil {
		log.Error("Failed to export catalog", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// GetFishReviews lists reviews for a fish
// GET /api/v1/fishes/:id/reviews
func (ctrl *FishController) GetFishReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fishID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.GetFishReviews(fishID)
	if err != nil {
		if errors.Is(err, service.ErrFishNotFound) {
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
			return
		}
		log.Error("Failed to fetch fish reviews", err, map[string]interface{}{
			"fish_id": fishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// CreateReview adds a review to a fish and refreshes its rating
// POST /api/v1/fishes/:id/reviews
func (ctrl *FishController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	fishID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	review, err := ctrl.reviewService.CreateReview(userID, fishID, *req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 0 and 5")
			return
		}
		if errors.Is(err, service.ErrFishNotFound) {
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
			return
		}
		log.Error("Failed to create review", err, map[string]interface{}{
			"user_id": userID,
			"fish_id": fishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id": review.ID,
		"fish_id":   fishID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"review": review,
	})
}
