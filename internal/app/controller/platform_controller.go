package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dkim/aquamarket-backend/internal/app/model"
	"github.com/dkim/aquamarket-backend/internal/app/service"
	apperrors "github.com/dkim/aquamarket-backend/internal/errors"
	"github.com/dkim/aquamarket-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type PlatformController struct {
	platformService service.PlatformService
}

func NewPlatformController(platformService service.PlatformService) *PlatformController {
	return &PlatformController{
		platformService: platformService,
	}
}

type CreatePlatformRequest struct {
	Name string `json:"name" binding:"required"`
}

type RecordActivityRequest struct {
	ActivityType string `json:"activity_type" binding:"required"`
}

// ListPlatforms returns all platforms
// GET /api/v1/platforms
func (ctrl *PlatformController) ListPlatforms(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	platforms, err := ctrl.platformService.GetPlatforms()
	if err != nil {
		log.Error("Failed to list platforms", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"platforms": platforms,
		"count":     len(platforms),
	})
}

// GetPlatform returns a platform with its available fish count
// GET /api/v1/platforms/:id
func (ctrl *PlatformController) GetPlatform(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	platformID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.platformService.GetPlatform(platformID)
	if err != nil {
		if errors.Is(err, service.ErrPlatformNotFound) {
			apperrors.NotFound(c, apperrors.PlatformNotFound, "Platform not found")
			return
		}
		log.Error("Failed to fetch platform", err, map[string]interface{}{
			"platform_id": platformID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, view)
}

// CreatePlatform opens a new marketplace platform owned by the caller
// POST /api/v1/platforms
func (ctrl *PlatformController) CreatePlatform(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	platform, err := ctrl.platformService.CreatePlatform(userID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlatformData) {
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Platform name is required")
			return
		}
		info := apperrors.ParseError(err, "platform")
		if info.Code == apperrors.ResourceAlreadyExists {
			apperrors.Conflict(c, info.Code, "Platform name is already taken")
			return
		}
		log.Error("Failed to create platform", err, map[string]interface{}{
			"user_id": userID,
			"name":    req.Name,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Platform created", map[string]interface{}{
		"platform_id": platform.ID,
		"user_id":     userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"platform": platform,
	})
}

// AddFish links a fish to the platform
// POST /api/v1/platforms/:id/fishes/:fish_id
func (ctrl *PlatformController) AddFish(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	platformID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	fishID, ok := parseIDParam(c, "fish_id")
	if !ok {
		return
	}

	if err := ctrl.platformService.AddFish(platformID, fishID); err != nil {
		if errors.Is(err, service.ErrPlatformNotFound) {
			apperrors.NotFound(c, apperrors.PlatformNotFound, "Platform not found")
			return
		}
		if errors.Is(err, service.ErrFishNotFound) {
			apperrors.NotFound(c, apperrors.FishNotFound, "Fish not found")
			return
		}
		log.Error("Failed to add fish to platform", err, map[string]interface{}{
			"platform_id": platformID,
			"fish_id":     fishID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fish added to platform successfully",
	})
}

// AddCategory links a category to the platform
// POST /api/v1/platforms/:id/categories/:category_id
func (ctrl *PlatformController) AddCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	platformID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "category_id")
	if !ok {
		return
	}

	if err := ctrl.platformService.AddCategory(platformID, categoryID); err != nil {
		if errors.Is(err, service.ErrPlatformNotFound) {
			apperrors.NotFound(c, apperrors.PlatformNotFound, "Platform not found")
			return
		}
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to add category to platform", err, map[string]interface{}{
			"platform_id": platformID,
			"category_id": categoryID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category added to platform successfully",
	})
}

// Join opens a membership for the caller
// POST /api/v1/platforms/:id/join
func (ctrl *PlatformController) Join(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	platformID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	membership, err := ctrl.platformService.Join(userID, platformID)
	if err != nil {
		if errors.Is(err, service.ErrPlatformNotFound) {
			apperrors.NotFound(c, apperrors.PlatformNotFound, "Platform not found")
			return
		}
		if errors.Is(err, service.ErrAlreadyMember) {
			apperrors.Conflict(c, apperrors.PlatformAlreadyJoined, "User already has an account on this platform")
			return
		}
		info := apperrors.ParseError(err, "platform")
		if info.Code == apperrors.PlatformAlreadyJoined {
			apperrors.Conflict(c, info.Code, info.Message)
			return
		}
		log.Error("Failed to join platform", err, map[string]interface{}{
			"user_id":     userID,
			"platform_id": platformID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("User joined platform", map[string]interface{}{
		"user_id":     userID,
		"platform_id": platformID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"membership": membership,
	})
}

// RecordActivity appends a login/logout entry for the caller
// POST /api/v1/platforms/:id/activity
func (ctrl *PlatformController) RecordActivity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	platformID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	err := ctrl.platformService.RecordActivity(userID, platformID, model.ActivityType(req.ActivityType))
	if err != nil {
		if errors.Is(err, service.ErrInvalidActivityType) {
			apperrors.BadRequest(c, apperrors.PlatformInvalidActivity, "Activity type must be login or logout")
			return
		}
		if errors.Is(err, service.ErrNotMember) {
			apperrors.Forbidden(c, "User is not a member of this platform")
			return
		}
		log.Error("Failed to record platform activity", err, map[string]interface{}{
			"user_id":     userID,
			"platform_id": platformID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Activity recorded successfully",
	})
}

// GetActivityLog lists the caller's entries on the platform, newest first
// GET /api/v1/platforms/:id/activity
func (ctrl *PlatformController) GetActivityLog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	platformID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := ctrl.platformService.GetActivityLog(userID, platformID)
	if err != nil {
		if errors.Is(err, service.ErrNotMember) {
			apperrors.Forbidden(c, "User is not a member of this platform")
			return
		}
		log.Error("Failed to fetch activity log", err, map[string]interface{}{
			"user_id":     userID,
			"platform_id": platformID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": entries,
		"count":    len(entries),
	})
}

func limitQuery(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		return 10
	}
	return limit
}

// PopularFishes ranks the platform's fish by review count
// GET /api/v1/platforms/:id/popular
func (ctrl *PlatformController) PopularFishes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	platformID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fishes, err := ctrl.platformService.PopularFishes(platformID, limitQuery(c))
	if err != nil {
		if errors.Is(err, service.ErrPlatformNotFound) {
			apperrors.NotFound(c, apperrors.PlatformNotFound, "Platform not found")
			return
		}
		log.Error("Failed to fetch popular fishes", err, map[string]interface{}{
			"platform_id": platformID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fishes": fishes,
		"count":  len(fishes),
	})
}

// NewlyAddedFishes lists the platform's fish newest first
// GET /api/v1/platforms/:id/new
func (ctrl *PlatformController) NewlyAddedFishes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	platformID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fishes, err := ctrl.platformService.NewlyAddedFishes(platformID, limitQuery(c))
	if err != nil {
		if errors.Is(err, service.ErrPlatformNotFound) {
			apperrors.NotFound(c, apperrors.PlatformNotFound, "Platform not found")
			return
		}
		log.Error("Failed to fetch newly added fishes", err, map[string]interface{}{
			"platform_id": platformID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fishes": fishes,
		"count":  len(fishes),
	})
}
